// Project Structure Overview
/*
smartadega-api/
├── cmd/
│   ├── server/
│   │   └── main.go
│   └── tokengen/
│       └── main.go
├── internal/
│   ├── apperrors/
│   │   └── errors.go
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── common.go
│   │   └── wine.go
│   ├── repository/
│   │   ├── repository.go
│   │   ├── wine_repository.go
│   │   └── memory_repository.go
│   ├── handlers/
│   │   ├── wine.go
│   │   ├── recognition.go
│   │   └── system.go
│   ├── services/
│   │   ├── wine_service.go
│   │   ├── recognition_service.go
│   │   ├── cache_service.go
│   │   └── storage_service.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── rate_limit.go
│   │   ├── i18n.go
│   │   ├── logging.go
│   │   └── metrics.go
│   ├── database/
│   │   └── connection.go
│   ├── i18n/
│   │   ├── i18n.go
│   │   ├── locales/
│   │   │   ├── en.json
│   │   │   └── pt_BR.json
│   │   └── keys.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── validator.go
│   │   ├── crypto.go
│   │   ├── pagination.go
│   │   └── response.go
│   ├── router/
│   │   └── router.go
│   └── tests/
└── go.mod
*/

// Package smartadega documents the project layout. The API server lives in
// cmd/server and the development token helper in cmd/tokengen.
package smartadega
