package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Acknowledgment Board API",
        "description": "Shared announcement board where employees acknowledge announcements.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Sessions", "description": "Board session tokens"},
        {"name": "Board", "description": "Per-session board state and acknowledgments"},
        {"name": "Creation", "description": "Password-gated announcement creation dialog"},
        {"name": "Announcements", "description": "Shared announcement list and reports"},
        {"name": "Images", "description": "Signed image links"}
    ],
    "paths": {
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Open a board session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Employee roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List announcements newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/announcements/{id}": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Get an announcement",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/announcements/{id}/report": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Download an acknowledgment report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Report file", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/images/{name}": {
            "get": {
                "tags": ["Images"],
                "summary": "Fetch a stored image",
                "produces": ["image/png", "image/jpeg", "image/gif", "image/webp"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Image", "schema": {"type": "file"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board": {
            "get": {
                "tags": ["Board"],
                "summary": "Current board snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/announcements/{id}/selection": {
            "put": {
                "tags": ["Board"],
                "summary": "Choose the employee about to acknowledge",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectEmployeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/announcements/{id}/acknowledge": {
            "post": {
                "tags": ["Board"],
                "summary": "Acknowledge an announcement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/AcknowledgeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/carousel/advance": {
            "post": {
                "tags": ["Board"],
                "summary": "Next previous-announcement slide",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}}
                }
            }
        },
        "/board/carousel/retreat": {
            "post": {
                "tags": ["Board"],
                "summary": "Previous previous-announcement slide",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}}
                }
            }
        },
        "/board/carousel/jump": {
            "post": {
                "tags": ["Board"],
                "summary": "Jump to a carousel slide",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CarouselJumpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/dialog/open": {
            "post": {
                "tags": ["Creation"],
                "summary": "Open the creation dialog",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/dialog/password": {
            "post": {
                "tags": ["Creation"],
                "summary": "Unlock the creation form",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "400": {"description": "Password rejected", "schema": {"$ref": "#/definitions/BoardEnvelope"}}
                }
            }
        },
        "/board/dialog/draft": {
            "patch": {
                "tags": ["Creation"],
                "summary": "Update draft title or text",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDraftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/dialog/image": {
            "post": {
                "tags": ["Creation"],
                "summary": "Attach an image to the draft",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "image", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Creation"],
                "summary": "Remove the draft image",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}}
                }
            }
        },
        "/board/dialog/submit": {
            "post": {
                "tags": ["Creation"],
                "summary": "Publish the draft",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Text missing", "schema": {"$ref": "#/definitions/BoardEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/dialog/cancel": {
            "post": {
                "tags": ["Creation"],
                "summary": "Close the creation dialog",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BoardEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AnnouncementView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "text": {"type": "string"},
                "image_url": {"type": "string"},
                "total_employees": {"type": "integer"},
                "acknowledged_count": {"type": "integer"},
                "acknowledged_by": {"type": "array", "items": {"type": "string"}},
                "progress_percentage": {"type": "number"},
                "status": {"type": "string", "enum": ["CURRENT", "PREVIOUS"]},
                "created_at": {"type": "string"}
            }
        },
        "CurrentAnnouncementView": {
            "allOf": [
                {"$ref": "#/definitions/AnnouncementView"},
                {
                    "type": "object",
                    "properties": {
                        "available_employees": {"type": "array", "items": {"type": "string"}},
                        "selected_employee": {"type": "string"},
                        "selection_locked": {"type": "boolean"},
                        "can_acknowledge": {"type": "boolean"}
                    }
                }
            ]
        },
        "CarouselView": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "size": {"type": "integer"},
                "navigable": {"type": "boolean"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/AnnouncementView"}}
            }
        },
        "DialogView": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["CLOSED", "PASSWORD_GATE", "FORM_OPEN", "SUBMITTING"]},
                "authenticated": {"type": "boolean"},
                "password_rejected": {"type": "boolean"},
                "validation_message": {"type": "string"},
                "submission_id": {"type": "string"},
                "draft": {
                    "type": "object",
                    "properties": {
                        "title": {"type": "string"},
                        "text": {"type": "string"},
                        "image_preview_url": {"type": "string"},
                        "image_filename": {"type": "string"}
                    }
                }
            }
        },
        "BoardSnapshot": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "roster": {"type": "array", "items": {"type": "string"}},
                "current": {"type": "array", "items": {"$ref": "#/definitions/CurrentAnnouncementView"}},
                "previous": {"$ref": "#/definitions/CarouselView"},
                "dialog": {"$ref": "#/definitions/DialogView"}
            }
        },
        "SelectEmployeeRequest": {
            "type": "object",
            "properties": {
                "employee": {"type": "string"}
            },
            "required": ["employee"]
        },
        "AcknowledgeRequest": {
            "type": "object",
            "properties": {
                "employee": {"type": "string"}
            }
        },
        "CarouselJumpRequest": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"}
            },
            "required": ["index"]
        },
        "PasswordRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            }
        },
        "UpdateDraftRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "BoardEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/BoardSnapshot"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
