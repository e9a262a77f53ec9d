package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dentalcare-connect-server/internal/assistant"
	"dentalcare-connect-server/internal/chat"
	"dentalcare-connect-server/internal/middleware"
	"dentalcare-connect-server/internal/models"
	"dentalcare-connect-server/internal/utils"
)

// MessageHandler handles the messaging feature, including the assistant
// conversation. The assistant participates like any other user: its replies
// are appended to the same two-party channel.
type MessageHandler struct {
	DB              *gorm.DB
	Chat            *chat.Service
	Responder       *assistant.Responder
	PrimaryDoctorID string
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(db *gorm.DB, chatSvc *chat.Service, responder *assistant.Responder, primaryDoctorID string) *MessageHandler {
	return &MessageHandler{DB: db, Chat: chatSvc, Responder: responder, PrimaryDoctorID: primaryDoctorID}
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	RecipientID   string `json:"recipientId" binding:"required"`
	Text          string `json:"text" binding:"required"`
	AppointmentID string `json:"appointmentId"`
}

// SendMessage appends a message to the sender/recipient channel. Patients
// and doctors can message each other; everyone can message the assistant.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	senderID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Sender ID not found in token")
		return
	}
	if senderID == req.RecipientID {
		utils.BadRequest(c, "Cannot send a message to yourself.")
		return
	}

	var recipient models.User
	if err := h.DB.First(&recipient, "id = ?", req.RecipientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Chat contact not found")
		} else {
			utils.InternalServerError(c, "Database error verifying recipient: "+err.Error())
		}
		return
	}

	senderRole, _ := middleware.GetUserRoleFromContext(c)
	if !messagingAllowed(senderRole, recipient.Role) {
		utils.Forbidden(c, "You are not authorized to send a message to this user.")
		return
	}

	msg, err := h.Chat.Send(c.Request.Context(), senderID, req.RecipientID, req.Text, req.AppointmentID)
	if err != nil {
		utils.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	utils.Created(c, "Message sent successfully", msg)
}

func messagingAllowed(sender, recipient models.Role) bool {
	if sender == models.RoleBot || recipient == models.RoleBot {
		return true
	}
	return (sender == models.RolePatient && recipient == models.RoleDoctor) ||
		(sender == models.RoleDoctor && recipient == models.RolePatient)
}

// GetMessages returns the conversation between the logged-in user and the
// user named in the withUser query parameter, oldest first.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	otherUserID := c.Query("withUser")
	if otherUserID == "" {
		utils.BadRequest(c, "Query parameter 'withUser' is required")
		return
	}

	messages, err := h.Chat.History(c.Request.Context(), userID, otherUserID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	utils.Success(c, "Messages fetched successfully", messages)
}

// NewMessagesRequest represents the polling query: since is the highest
// message seq the client has already seen.
type NewMessagesRequest struct {
	Since uint64 `form:"since"`
}

// GetNewMessages handles fetching messages appended since a given seq. This
// is the polling alternative to a push channel: clients repeat the call with
// the last seq they received.
func (h *MessageHandler) GetNewMessages(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req NewMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	messages, err := h.Chat.NewSince(c.Request.Context(), userID, req.Since)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch new messages: "+err.Error())
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	utils.Success(c, "New messages fetched successfully", messages)
}

// ConversationPreview is one entry in the conversation list: the partner
// and the most recent message exchanged with them.
type ConversationPreview struct {
	Partner     models.UserSanitized `json:"partner"`
	LastMessage models.Message       `json:"lastMessage"`
}

// GetConversations lists the user's conversations, one preview per partner.
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var partnerIDs []string
	err := h.DB.Raw(`
		SELECT DISTINCT partner_id FROM (
			SELECT receiver_id AS partner_id FROM messages WHERE sender_id = ?
			UNION
			SELECT sender_id AS partner_id FROM messages WHERE receiver_id = ?
		) AS partners
	`, userID, userID).Scan(&partnerIDs).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch conversation partners: "+err.Error())
		return
	}

	previews := []ConversationPreview{}
	for _, partnerID := range partnerIDs {
		var partner models.User
		if err := h.DB.First(&partner, "id = ?", partnerID).Error; err != nil {
			continue
		}

		var lastMessage models.Message
		err := h.DB.Where("chat_id = ?", chat.ChannelKey(userID, partnerID)).
			Order("seq desc").First(&lastMessage).Error
		if err != nil {
			continue
		}

		previews = append(previews, ConversationPreview{
			Partner:     partner.Sanitize(),
			LastMessage: lastMessage,
		})
	}

	utils.Success(c, "Conversations fetched successfully", previews)
}

// AskAssistantRequest represents the request body for an assistant turn.
type AskAssistantRequest struct {
	Text string `json:"text" binding:"required"`
}

// AskAssistantResponse returns both halves of the exchange.
type AskAssistantResponse struct {
	Message *models.Message `json:"message"`
	Reply   *models.Message `json:"reply"`
}

// AskAssistant records the patient's message, asks the assistant for a
// reply grounded in the current availability snapshot, records the reply
// and returns both. The assistant call is bounded and falls back to a fixed
// apology, so this endpoint does not fail when the collaborator does.
func (h *MessageHandler) AskAssistant(c *gin.Context) {
	var req AskAssistantRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patientMsg, err := h.Chat.Send(c.Request.Context(), patientID, assistant.BotID, req.Text, "")
	if err != nil {
		utils.InternalServerError(c, "Failed to record message: "+err.Error())
		return
	}

	var doctors []models.User
	if err := h.DB.Preload("Availability").
		Where("role = ?", models.RoleDoctor).
		Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to load availability: "+err.Error())
		return
	}
	slotsByDoctor := make(map[string][]models.TimeSlot, len(doctors))
	for _, doc := range doctors {
		slotsByDoctor[doc.ID] = doc.Availability
	}
	snap := assistant.BuildSnapshot(doctors, slotsByDoctor, h.PrimaryDoctorID, time.Now())

	replyText := h.Responder.Reply(c.Request.Context(), snap, patientID, req.Text)

	replyMsg, err := h.Chat.Send(c.Request.Context(), assistant.BotID, patientID, replyText, "")
	if err != nil {
		utils.InternalServerError(c, "Failed to record assistant reply: "+err.Error())
		return
	}

	utils.Success(c, "Assistant replied", AskAssistantResponse{
		Message: patientMsg,
		Reply:   replyMsg,
	})
}
