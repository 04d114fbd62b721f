package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// ContactHandler handles HTTP requests for contacts and their messages.
type ContactHandler struct {
	contactService *service.ContactService
	chatService    *service.ChatService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *service.ContactService, chatService *service.ChatService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		chatService:    chatService,
	}
}

// CreateContactRequest is the HTTP request body for opening a contact.
type CreateContactRequest struct {
	CounterpartID string  `json:"counterpart_id"`
	Score         float64 `json:"score,omitempty"`
}

// ContactResponse is the HTTP response for contact data.
type ContactResponse struct {
	ID            string  `json:"id"`
	RequesterID   string  `json:"requester_id"`
	CounterpartID string  `json:"counterpart_id"`
	Score         float64 `json:"score"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toContactResponse(contact *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:            contact.ID,
		RequesterID:   contact.RequesterID,
		CounterpartID: contact.CounterpartID,
		Score:         contact.Score,
		CreatedAt:     contact.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     contact.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ConversationResponse is one entry of the contact list.
type ConversationResponse struct {
	Contact     ContactResponse      `json:"contact"`
	OtherUser   *UserResponse        `json:"other_user,omitempty"`
	LastMessage *ChatMessageResponse `json:"last_message,omitempty"`
}

// Create handles POST /v1/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.contactService.CreateContact(c.Request.Context(), service.CreateContactRequest{
		RequesterID:   middleware.UserID(c),
		CounterpartID: req.CounterpartID,
		Score:         req.Score,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	respondJSON(c, status, toContactResponse(result.Contact))
}

// GetAll handles GET /v1/contacts
func (h *ContactHandler) GetAll(c *gin.Context) {
	conversations, err := h.contactService.ListConversations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		entry := ConversationResponse{Contact: toContactResponse(conv.Contact)}
		if conv.OtherUser != nil {
			user := toUserResponse(conv.OtherUser)
			entry.OtherUser = &user
		}
		if conv.LastMessage != nil {
			msg := toChatMessageResponse(conv.LastMessage)
			entry.LastMessage = &msg
		}
		response = append(response, entry)
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contactService.GetContact(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toContactResponse(contact))
}

// SendMessageRequest is the HTTP request body for sending a chat message.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// ChatMessageResponse is the HTTP response for a chat message.
type ChatMessageResponse struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toChatMessageResponse(msg *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        msg.ID,
		ContactID: msg.ContactID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// SendMessage handles POST /v1/contacts/:id/messages
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toChatMessageResponse(msg))
}

// GetMessages handles GET /v1/contacts/:id/messages
func (h *ContactHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatService.ListMessages(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, toChatMessageResponse(msg))
	}

	respondJSON(c, http.StatusOK, response)
}
