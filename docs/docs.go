// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/catalog/products": {
            "get": {"summary": "List catalog products", "tags": ["catalog"]},
            "post": {"summary": "Create a bulk or serialized product", "tags": ["catalog"]}
        },
        "/catalog/products/{id}": {
            "get": {"summary": "Get a product", "tags": ["catalog"]},
            "put": {"summary": "Update a product's descriptive fields", "tags": ["catalog"]},
            "delete": {"summary": "Delete a product (owner only)", "tags": ["catalog"]}
        },
        "/catalog/products/{id}/restock": {
            "post": {"summary": "Restock a bulk product", "tags": ["catalog"]}
        },
        "/catalog/products/{id}/units": {
            "post": {"summary": "Append serialized units (owner only)", "tags": ["catalog"]}
        },
        "/catalog/products/{id}/inventory": {
            "get": {"summary": "Read the availability counter", "tags": ["catalog"]}
        },
        "/catalog/products/check-device-id": {
            "post": {"summary": "Check a device identifier for duplicates", "tags": ["catalog"]}
        },
        "/catalog/products/import": {
            "post": {"summary": "Import products from CSV", "tags": ["catalog"]}
        },
        "/catalog/products/import/{id}": {
            "get": {"summary": "Poll an import session", "tags": ["catalog"]}
        },
        "/catalog/products/import/{id}/abort": {
            "post": {"summary": "Abort a running import", "tags": ["catalog"]}
        },
        "/returns": {
            "get": {"summary": "List return entries", "tags": ["returns"]},
            "post": {"summary": "Create return entries for located units", "tags": ["returns"]}
        },
        "/returns/{id}": {
            "get": {"summary": "Get a return entry", "tags": ["returns"]},
            "put": {"summary": "Update a return entry", "tags": ["returns"]}
        },
        "/returns/delete": {
            "post": {"summary": "Delete return entries in batch", "tags": ["returns"]}
        },
        "/returns/locate/receipt": {
            "get": {"summary": "Locate sold units by receipt code", "tags": ["returns"]}
        },
        "/returns/locate/device": {
            "get": {"summary": "Locate sold units by device identifier fragment", "tags": ["returns"]}
        },
        "/returns/stats": {
            "get": {"summary": "Summarize the returns ledger", "tags": ["returns"]}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "StoreOps Backend API",
	Description:      "Serialized inventory identity and returns reconciliation for retail stores.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
