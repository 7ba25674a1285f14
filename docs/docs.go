// Package docs registers the OpenAPI description of the REST API with swag.
// It is regenerated with `swag init -g cmd/server/main.go` after the handler
// annotations in internal/api change.
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
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HealthResponse"}}
                }
            }
        },
        "/bills/balance": {
            "post": {
                "description": "Returns who is owed and who owes, largest amounts first",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bills"],
                "summary": "Compute outing balances",
                "parameters": [
                    {"description": "Outing", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Outing"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OutingPaymentBalance"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ValidationErrorResponse"}}
                }
            }
        },
        "/bills/ocr": {
            "post": {
                "description": "Reads items, tax rate, service charge and total from a receipt image",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["bills"],
                "summary": "Extract a bill from a receipt image",
                "parameters": [
                    {"type": "file", "description": "Receipt image", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OCRBill"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ValidationErrorResponse"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/bills/split": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bills"],
                "summary": "Settle an outing",
                "parameters": [
                    {"description": "Outing", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Outing"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OutingSplit"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ValidationErrorResponse"}}
                }
            }
        },
        "/outings/split": {
            "post": {
                "description": "Computes the fewest payments that settle every balance",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["outings"],
                "summary": "Settle an outing",
                "parameters": [
                    {"description": "Outing", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Outing"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OutingSplit"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ValidationErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "healthy"}}
        },
        "api.ValidationErrorResponse": {
            "type": "object",
            "properties": {"detail": {"type": "array", "items": {"$ref": "#/definitions/validation.FieldError"}}}
        },
        "validation.FieldError": {
            "type": "object",
            "properties": {
                "loc": {"type": "array", "items": {}},
                "msg": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "models.Item": {
            "type": "object",
            "required": ["consumed_by", "name", "price", "quantity"],
            "properties": {
                "name": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"},
                "consumed_by": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.Bill": {
            "type": "object",
            "required": ["amount_paid", "items", "paid_by"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Item"}},
                "paid_by": {"type": "string"},
                "amount_paid": {"type": "number"},
                "tax_rate": {"type": "number", "default": 0.05},
                "service_charge": {"type": "number", "default": 0}
            }
        },
        "models.Outing": {
            "type": "object",
            "required": ["bills"],
            "properties": {
                "bills": {"type": "array", "items": {"$ref": "#/definitions/models.Bill"}}
            }
        },
        "models.PersonBalance": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "amount": {"type": "number"}}
        },
        "models.OutingPaymentBalance": {
            "type": "object",
            "properties": {
                "creditors": {"type": "array", "items": {"$ref": "#/definitions/models.PersonBalance"}},
                "debtors": {"type": "array", "items": {"$ref": "#/definitions/models.PersonBalance"}}
            }
        },
        "models.Payment": {
            "type": "object",
            "properties": {"to": {"type": "string"}, "amount": {"type": "number"}}
        },
        "models.PaymentPlan": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "payments": {"type": "array", "items": {"$ref": "#/definitions/models.Payment"}}
            }
        },
        "models.OutingSplit": {
            "type": "object",
            "properties": {
                "payment_plans": {"type": "array", "items": {"$ref": "#/definitions/models.PaymentPlan"}}
            }
        },
        "models.OCRBillItem": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "price": {"type": "number"}, "quantity": {"type": "integer"}}
        },
        "models.OCRBill": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.OCRBillItem"}},
                "tax_rate": {"type": "number"},
                "service_charge": {"type": "number"},
                "amount_paid": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Bill Splitter API",
	Description:      "Split restaurant bills between friends and settle up with the fewest payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
