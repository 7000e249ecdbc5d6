package schemas

import "embed"

// SchemasFS содержит JSON-схемы контрактов сервиса
//
//go:embed events
var SchemasFS embed.FS
