package constants

// Параметры гостевого поискового API единого реестра
const (
	RegistrySearchURL  = "https://eri2.nca.by/api/guest/abandonedObject/search"
	ObjectLinkTemplate = "https://eri2.nca.by/guest/abandonedObject/%d"

	// Фиксированная форма поискового запроса: 20 объектов на страницу,
	// сортировка по дате состояния по убыванию, без разрушенных и аварийных,
	// только категория "пустующие дома"
	PageSize              = 20
	SortByStateDate       = 1
	StateSearchCategoryID = 2

	DefaultRegion = "Минская обл."
)

// Селекторы карты на странице объекта (Leaflet внутри vue2-leaflet)
const (
	MapMarkerSelector    = ".leaflet-marker-icon"
	MapContainerSelector = ".vue2leaflet-map"
)

// Параметры геокодера Nominatim
const (
	NominatimSearchURL = "https://nominatim.openstreetmap.org/search"
	NominatimUserAgent = "eri-tracker-geocoder"
	GeocoderCountry    = "Беларусь"
	GeocoderRegion     = "Минская область"
	CountryCodes       = "by"
)
