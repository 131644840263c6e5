// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["viewer"], "summary": "Load state of the viewer", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/summary": {
            "get": {"tags": ["viewer"], "summary": "Aggregate statistics of the loaded document", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/tree": {
            "get": {"tags": ["viewer"], "summary": "Ordinance, zone and street navigation tree", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/annotations": {
            "get": {"tags": ["viewer"], "summary": "Rendered annotations as a GeoJSON FeatureCollection", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/view": {
            "get": {"tags": ["viewer"], "summary": "Viewport fitting every rendered annotation", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/streets/view": {
            "get": {"tags": ["viewer"], "summary": "Viewport fitting one street", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Ordinance ID", "name": "ordinance", "in": "query", "required": true},
                    {"type": "string", "description": "Zone name", "name": "zone", "in": "query", "required": true},
                    {"type": "string", "description": "Street name", "name": "street", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/streets/search": {
            "get": {"tags": ["viewer"], "summary": "Search streets by name, with close spellings when nothing matches", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Street name fragment", "name": "q", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/visibility": {
            "post": {"tags": ["viewer"], "summary": "Toggle, show or hide annotations of a scope",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Scope and optional target visibility", "name": "request", "in": "body", "required": true,
                    "schema": {"type": "object", "properties": {
                        "scope": {"type": "string", "enum": ["all", "ordinance", "zone", "street"]},
                        "ordinance": {"type": "string"}, "zone": {"type": "string"}, "street": {"type": "string"},
                        "visible": {"type": "boolean"}}}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/reload": {
            "post": {"tags": ["viewer"], "summary": "Fetch the document again and rebuild the index", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ordinance Map API",
	Description:      "Classified street annotations of ordinance zones, with visibility control.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
