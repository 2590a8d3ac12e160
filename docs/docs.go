// Package docs содержит описание HTTP API для swagger UI.
// Описание поддерживается вместе с аннотациями хендлеров в internal/delivery/v1/http.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/products": {
            "get": {
                "tags": ["products"], "summary": "Каталог", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "asc или desc", "name": "sort", "in": "query"},
                    {"type": "string", "description": "Начало диапазона, YYYY-MM-DD", "name": "start", "in": "query"},
                    {"type": "string", "description": "Конец диапазона, YYYY-MM-DD", "name": "end", "in": "query"},
                    {"type": "string", "description": "pending, approved или rejected", "name": "status", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 6, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalogResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"], "summary": "Публикация продукта", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createProductRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/products/featured": {
            "get": {
                "tags": ["products"], "summary": "Последние одобренные продукты", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/productResponse"}}}}
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["products"], "summary": "Карточка продукта", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/productResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"], "summary": "Изменение продукта", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateProductRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/productResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"], "summary": "Удаление продукта",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/products/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Модерация продукта", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "status", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/products/{id}/prices": {
            "get": {
                "tags": ["prices"], "summary": "История цен продукта", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/priceSeriesResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["prices"], "summary": "Добавление наблюдения цены", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "sample", "in": "body", "required": true, "schema": {"$ref": "#/definitions/priceSample"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/priceSample"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["prices"], "summary": "Замена всей истории цен", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "prices", "in": "body", "required": true, "schema": {"$ref": "#/definitions/replacePricesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/priceSeriesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/products/{id}/prices/compare": {
            "get": {
                "tags": ["prices"], "summary": "Сравнение цены с датой", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Опорная дата, YYYY-MM-DD", "name": "date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/comparisonResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Нет данных на дату", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/products/{id}/reviews": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"], "summary": "Отзывы о продукте", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/reviewResponse"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"], "summary": "Новый отзыв", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "review", "in": "body", "required": true, "schema": {"$ref": "#/definitions/addReviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/reviewResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/reviews/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"], "summary": "Правка комментария", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "review", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reviewResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"], "summary": "Удаление отзыва",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/vendor/products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["vendor"], "summary": "Продукты текущего вендора", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/productResponse"}}}}
            }
        },
        "/payments/intents": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"], "summary": "Создание платёжного намерения", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "intent", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createPaymentIntentRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/paymentIntentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"], "summary": "Заказы текущего покупателя", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/orderResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"], "summary": "Запись заказа после оплаты", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/settleOrderRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/orderResponse"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Поиск заказов по имени или email покупателя", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "search", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/orderResponse"}}}}
            }
        },
        "/admin/settlements/reconciliation": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Расчёты с оплатой без записанного заказа", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/settlementResponse"}}}}
            }
        },
        "/watchlist": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["watchlist"], "summary": "Watchlist текущего пользователя", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/watchlistEntryResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["watchlist"], "summary": "Добавление продукта в watchlist", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "entry", "in": "body", "required": true, "schema": {"$ref": "#/definitions/addToWatchlistRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/watchlistEntryResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Уже в watchlist", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/watchlist/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["watchlist"], "summary": "Удаление записи watchlist",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"], "summary": "Поиск пользователей", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Подстрока имени или email", "name": "search", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/userResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"], "summary": "Регистрация текущего пользователя", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "user", "in": "body", "schema": {"$ref": "#/definitions/registerUserRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/me": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"], "summary": "Смена имени текущего пользователя", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateNameRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/role/{email}": {
            "get": {
                "tags": ["users"], "summary": "Роль пользователя", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "email", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/roleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {"type": "object", "properties": {"code": {"type": "integer"}, "message": {"type": "string"}}},
        "priceSample": {"type": "object", "properties": {"date": {"type": "string", "example": "2025-06-01"}, "price": {"type": "string", "example": "12.50"}}},
        "createProductRequest": {"type": "object", "properties": {
            "item_name": {"type": "string"}, "market_name": {"type": "string"}, "market_description": {"type": "string"},
            "price_per_unit": {"type": "string"}, "created_on": {"type": "string"},
            "prices": {"type": "array", "items": {"$ref": "#/definitions/priceSample"}}}},
        "updateProductRequest": {"type": "object", "properties": {
            "item_name": {"type": "string"}, "market_name": {"type": "string"}, "market_description": {"type": "string"},
            "price_per_unit": {"type": "string"},
            "prices": {"type": "array", "items": {"$ref": "#/definitions/priceSample"}}}},
        "updateStatusRequest": {"type": "object", "properties": {
            "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
            "rejection_reason": {"type": "string"}, "rejection_feedback": {"type": "string"}}},
        "replacePricesRequest": {"type": "object", "properties": {"prices": {"type": "array", "items": {"$ref": "#/definitions/priceSample"}}}},
        "createPaymentIntentRequest": {"type": "object", "properties": {"product_id": {"type": "integer"}, "quantity": {"type": "integer"}}},
        "settleOrderRequest": {"type": "object", "properties": {"settlement_id": {"type": "string", "format": "uuid"}, "transaction_id": {"type": "string"}}},
        "addToWatchlistRequest": {"type": "object", "properties": {"product_id": {"type": "integer"}}},
        "registerUserRequest": {"type": "object", "properties": {"name": {"type": "string"}}},
        "updateNameRequest": {"type": "object", "properties": {"name": {"type": "string"}}},
        "addReviewRequest": {"type": "object", "properties": {"comment": {"type": "string"}, "rating": {"type": "integer", "minimum": 1, "maximum": 5}}},
        "updateReviewRequest": {"type": "object", "properties": {"comment": {"type": "string"}}},
        "reviewResponse": {"type": "object", "properties": {
            "id": {"type": "integer"}, "product_id": {"type": "integer"}, "user_email": {"type": "string"},
            "user_name": {"type": "string"}, "comment": {"type": "string"}, "rating": {"type": "integer"},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "productResponse": {"type": "object", "properties": {
            "id": {"type": "integer"}, "item_name": {"type": "string"}, "market_name": {"type": "string"},
            "market_description": {"type": "string"}, "price_per_unit": {"type": "string"},
            "vendor_email": {"type": "string"}, "vendor_name": {"type": "string"}, "status": {"type": "string"},
            "rejection_reason": {"type": "string"}, "rejection_feedback": {"type": "string"}, "created_on": {"type": "string"},
            "prices": {"type": "array", "items": {"$ref": "#/definitions/priceSample"}},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "catalogResponse": {"type": "object", "properties": {
            "products": {"type": "array", "items": {"$ref": "#/definitions/productResponse"}},
            "current_page": {"type": "integer"}, "total_pages": {"type": "integer"}, "total_items": {"type": "integer"}}},
        "priceSeriesResponse": {"type": "object", "properties": {
            "product_id": {"type": "integer"}, "prices": {"type": "array", "items": {"$ref": "#/definitions/priceSample"}}}},
        "comparisonResponse": {"type": "object", "properties": {
            "reference_date": {"type": "string"}, "base_price": {"type": "string"}, "latest_price": {"type": "string"},
            "latest_date": {"type": "string"}, "delta": {"type": "string"},
            "direction": {"type": "string", "enum": ["increased", "decreased", "unchanged"]},
            "summary": {"type": "string"}, "series": {"type": "array", "items": {"$ref": "#/definitions/priceSample"}}}},
        "paymentIntentResponse": {"type": "object", "properties": {
            "settlement_id": {"type": "string"}, "intent_id": {"type": "string"}, "client_secret": {"type": "string"},
            "total_amount": {"type": "string"}, "amount_minor": {"type": "integer"}, "currency": {"type": "string"}}},
        "orderResponse": {"type": "object", "properties": {
            "id": {"type": "integer"}, "settlement_id": {"type": "string"}, "product_id": {"type": "integer"},
            "product_name": {"type": "string"}, "market_name": {"type": "string"}, "unit_price": {"type": "string"},
            "quantity": {"type": "integer"}, "total_amount": {"type": "string"}, "currency": {"type": "string"},
            "transaction_id": {"type": "string"}, "buyer_email": {"type": "string"}, "buyer_name": {"type": "string"},
            "status": {"type": "string"}, "created_at": {"type": "string"}}},
        "settlementResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "product_id": {"type": "integer"}, "buyer_email": {"type": "string"},
            "quantity": {"type": "integer"}, "total_amount": {"type": "string"}, "currency": {"type": "string"},
            "intent_id": {"type": "string"}, "state": {"type": "string"}, "needs_reconciliation": {"type": "boolean"},
            "failure_reason": {"type": "string"}, "attempts": {"type": "integer"}, "updated_at": {"type": "string"}}},
        "watchlistEntryResponse": {"type": "object", "properties": {
            "id": {"type": "integer"}, "product_id": {"type": "integer"}, "product_name": {"type": "string"},
            "market_name": {"type": "string"}, "created_at": {"type": "string"}}},
        "userResponse": {"type": "object", "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string"}}},
        "roleResponse": {"type": "object", "properties": {"role": {"type": "string", "enum": ["user", "vendor", "admin"]}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Market API",
	Description:      "Цены рынков, каталог, оплата и заказы.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
