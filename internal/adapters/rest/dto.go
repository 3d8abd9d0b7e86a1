package rest

// HouseResponse - DTO для карточки объекта реестра.
type HouseResponse struct {
	ID             int64    `json:"id"`
	Position       string   `json:"position"`
	StateType      string   `json:"state_type"`
	StateDate      *string  `json:"state_date"`
	InspectionDate *string  `json:"inspection_date"`
	Link           string   `json:"link"`
	Actual         bool     `json:"actual"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Geohash        *string  `json:"geohash"`
}

// HousesListResponse - DTO для ответа со списком объектов.
type HousesListResponse struct {
	Data  []HouseResponse `json:"data"`
	Total int             `json:"total"`
}

type RefreshRequest struct {
	Region string `json:"region"`
}

type RefreshResponse struct {
	Region  string `json:"region"`
	Fetched int    `json:"fetched"`
	Matched int    `json:"matched"`
	Aborted bool   `json:"aborted"`
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
	Deleted int    `json:"deleted"`
}

type GeocodeMissingResponse struct {
	Processed int `json:"processed"`
	Resolved  int `json:"resolved"`
}

type ExportResponse struct {
	FilePath string `json:"file_path"`
}
