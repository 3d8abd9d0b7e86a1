package schemas

import "embed"

// SchemasFS содержит JSON-схемы всех событий, публикуемых сервисом.
//
//go:embed events
var SchemasFS embed.FS
