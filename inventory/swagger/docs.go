// Package swagger registers the inventory API description served under /swagger/*.
package swagger

import "github.com/swaggo/swag"

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
    "paths": {
        "/inventory": {
            "get": {
                "summary": "List inventory items",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "condition", "in": "query", "type": "string", "enum": ["GOOD", "LIGHTLY_DAMAGED", "SEVERELY_DAMAGED"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ListItems"}}}
            },
            "post": {
                "summary": "Register an inventory item",
                "parameters": [
                    {"name": "X-User-Name", "in": "header", "type": "string", "required": true},
                    {"name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Item"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Code already exists", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/inventory/{id}": {
            "get": {
                "summary": "Get an inventory item",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Item"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "summary": "Update an inventory item",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "X-User-Name", "in": "header", "type": "string", "required": true},
                    {"name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Item"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "summary": "Delete an inventory item without reserved stock",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "X-User-Name", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Reserved by open loans", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/inventory/stats": {
            "get": {"summary": "Inventory rollup", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/InventoryStats"}}}}
        },
        "/loans": {
            "get": {
                "summary": "List loans",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["PENDING", "ACTIVE", "COMPLETED", "OVERDUE", "REJECTED"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ListLoans"}}}
            },
            "post": {
                "summary": "Create a loan, reserving stock for every line",
                "parameters": [
                    {"name": "X-User-Name", "in": "header", "type": "string", "required": true},
                    {"name": "loan", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLoanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Loan"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Unknown item", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/loans/{id}": {
            "get": {
                "summary": "Get a loan",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Loan"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/loans/{id}/status": {
            "patch": {
                "summary": "Move a loan to another status",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "X-User-Name", "in": "header", "type": "string", "required": true},
                    {"name": "transition", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Loan"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Invalid transition or concurrent modification", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/loans/overdue/scan": {
            "post": {
                "summary": "Promote active loans past their due date to OVERDUE",
                "parameters": [
                    {"name": "X-User-Name", "in": "header", "type": "string", "required": true},
                    {"name": "at", "in": "query", "type": "string", "format": "date-time"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ScanResult"}}}
            }
        },
        "/loans/stats": {
            "get": {"summary": "Loan rollup", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanStats"}}}}
        },
        "/stats": {
            "get": {
                "summary": "Inventory and loan rollups",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "inventory": {"$ref": "#/definitions/InventoryStats"},
                                "loans": {"$ref": "#/definitions/LoanStats"}
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["ValidationError", "NotFoundError", "InsufficientStock", "InvalidTransition", "ConcurrencyConflict", "Conflict", "InternalError"]},
                "message": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/Shortage"}},
                "current": {"type": "string"},
                "target": {"type": "string"}
            }
        },
        "Shortage": {
            "type": "object",
            "properties": {
                "itemId": {"type": "integer"},
                "requested": {"type": "integer"},
                "available": {"type": "integer"}
            }
        },
        "ItemRequest": {
            "type": "object",
            "required": ["name", "code", "category"],
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "quantityOnHand": {"type": "integer"},
                "category": {"type": "string"},
                "condition": {"type": "string"},
                "location": {"type": "string"},
                "acquisitionDate": {"type": "string", "format": "date"}
            }
        },
        "Item": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "code": {"type": "string"},
                "quantityOnHand": {"type": "integer"},
                "quantityReserved": {"type": "integer"},
                "available": {"type": "integer"},
                "category": {"type": "string"},
                "condition": {"type": "string"},
                "location": {"type": "string"},
                "acquisitionDate": {"type": "string"},
                "userName": {"type": "string"}
            }
        },
        "ListItems": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalElements": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/Item"}}
            }
        },
        "LineRequest": {
            "type": "object",
            "properties": {
                "itemId": {"type": "integer"},
                "quantity": {"type": "integer"}
            }
        },
        "CreateLoanRequest": {
            "type": "object",
            "required": ["borrowerName", "borrowerPhone", "loanDate", "dueDate", "items"],
            "properties": {
                "borrowerName": {"type": "string"},
                "borrowerPhone": {"type": "string"},
                "loanDate": {"type": "string", "format": "date"},
                "dueDate": {"type": "string", "format": "date"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/LineRequest"}}
            }
        },
        "TransitionRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["ACTIVE", "COMPLETED", "OVERDUE", "REJECTED"]},
                "writeOff": {"type": "boolean"}
            }
        },
        "LineItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "loanId": {"type": "integer"},
                "itemId": {"type": "integer"},
                "quantity": {"type": "integer"},
                "itemName": {"type": "string"},
                "itemCode": {"type": "string"}
            }
        },
        "Loan": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "borrowerName": {"type": "string"},
                "borrowerPhone": {"type": "string"},
                "loanDate": {"type": "string"},
                "dueDate": {"type": "string"},
                "status": {"type": "string"},
                "userName": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/LineItem"}}
            }
        },
        "ListLoans": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalElements": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/Loan"}}
            }
        },
        "ScanResult": {
            "type": "object",
            "properties": {
                "at": {"type": "string", "format": "date-time"},
                "promoted": {"type": "array", "items": {"type": "integer"}},
                "skipped": {"type": "integer"}
            }
        },
        "Count": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "InventoryStats": {
            "type": "object",
            "properties": {
                "totalItems": {"type": "integer"},
                "totalOnHand": {"type": "integer"},
                "totalReserved": {"type": "integer"},
                "byCondition": {"type": "array", "items": {"$ref": "#/definitions/Count"}},
                "byCategory": {"type": "array", "items": {"$ref": "#/definitions/Count"}}
            }
        },
        "LoanStats": {
            "type": "object",
            "properties": {
                "totalLoans": {"type": "integer"},
                "overdueCount": {"type": "integer"},
                "byStatus": {"type": "array", "items": {"$ref": "#/definitions/Count"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Inventory loan service",
	Description:      "Inventory catalog, multi-item loans and their lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
