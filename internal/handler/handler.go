package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"chat-relay-server/internal/chat"
	"chat-relay-server/internal/domain"
	"chat-relay-server/internal/service"
)

const sessionCookie = "session_token"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler wires the HTTP surface: the two WebSocket entry points and the
// synchronous API used by page rendering.
type Handler struct {
	auth       service.IAuthService
	chats      service.IChatService
	groups     service.IGroupService
	messages   service.IMessageRepository
	registry   *chat.Registry
	dispatcher *chat.Dispatcher
	loc        *time.Location
}

// New creates a new Handler.
func New(auth service.IAuthService, chats service.IChatService, groups service.IGroupService,
	messages service.IMessageRepository, registry *chat.Registry, dispatcher *chat.Dispatcher,
	loc *time.Location) *Handler {
	return &Handler{
		auth:       auth,
		chats:      chats,
		groups:     groups,
		messages:   messages,
		registry:   registry,
		dispatcher: dispatcher,
		loc:        loc,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/ws/chat/{username}", h.directWS).Methods("GET")
	r.HandleFunc("/ws/group/{group_id}", h.groupWS).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", h.register).Methods("POST")
	api.HandleFunc("/login", h.login).Methods("POST")
	api.HandleFunc("/logout", h.logout).Methods("POST")
	api.HandleFunc("/conversations", h.conversations).Methods("GET")
	api.HandleFunc("/message/{message_id}", h.deleteMessage).Methods("DELETE")
	api.HandleFunc("/messages/{username}", h.directHistory).Methods("GET")
	api.HandleFunc("/messages/{username}", h.directClear).Methods("DELETE")
	api.HandleFunc("/groups", h.createGroup).Methods("POST")
	api.HandleFunc("/groups/{group_id}/members", h.groupMembers).Methods("GET")
	api.HandleFunc("/groups/{group_id}/members", h.addGroupMember).Methods("POST")
	api.HandleFunc("/groups/{group_id}/leave", h.leaveGroup).Methods("POST")
	api.HandleFunc("/groups/{group_id}/messages", h.groupHistory).Methods("GET")
	api.HandleFunc("/groups/{group_id}/messages", h.groupClear).Methods("DELETE")
}

// --- WebSocket entry points ---

// directWS opens a direct-message session with the peer named in the path.
// The identity must already be established; an unauthenticated request is
// rejected before the upgrade.
func (h *Handler) directWS(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}
	peer := mux.Vars(r)["username"]
	if peer == "" {
		http.Error(w, "peer username is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade error: %v", err)
		return
	}

	roomID := chat.DirectRoomID(identity, peer)
	chat.NewSession(conn, identity, roomID, h.registry, h.dispatcher, h.messages, h.loc).Start()
}

// groupWS opens a group session. Only group members may join.
func (h *Handler) groupWS(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}
	groupID, err := uuid.Parse(mux.Vars(r)["group_id"])
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	member, err := h.groups.IsMember(groupID, identity)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not verify membership", http.StatusInternalServerError)
		return
	}
	if !member {
		http.Error(w, "not a group member", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade error: %v", err)
		return
	}

	roomID := chat.GroupRoomID(groupID.String())
	chat.NewSession(conn, identity, roomID, h.registry, h.dispatcher, h.messages, h.loc).Start()
}

// --- Auth endpoints ---

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), h.token(r)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Message endpoints ---

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}
	counterparts, err := h.chats.Conversations(r.Context(), identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"conversations": counterparts})
}

func (h *Handler) directHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}
	peer := mux.Vars(r)["username"]
	entries, err := h.chats.History(r.Context(), domain.DirectConversation(identity, peer), identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": entries})
}

func (h *Handler) directClear(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}
	peer := mux.Vars(r)["username"]
	if err := h.chats.Clear(r.Context(), domain.DirectConversation(identity, peer)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identify(w, r); !ok {
		return
	}
	if err := h.chats.DeleteMessage(r.Context(), mux.Vars(r)["message_id"]); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) groupHistory(w http.ResponseWriter, r *http.Request) {
	identity, groupID, ok := h.identifyMember(w, r)
	if !ok {
		return
	}
	convo := domain.GroupConversation(chat.GroupRoomID(groupID.String()))
	entries, err := h.chats.History(r.Context(), convo, identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": entries})
}

func (h *Handler) groupClear(w http.ResponseWriter, r *http.Request) {
	_, groupID, ok := h.identifyMember(w, r)
	if !ok {
		return
	}
	convo := domain.GroupConversation(chat.GroupRoomID(groupID.String()))
	if err := h.chats.Clear(r.Context(), convo); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Group endpoints ---

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	group, err := h.groups.Create(req.Name, identity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *Handler) groupMembers(w http.ResponseWriter, r *http.Request) {
	_, groupID, ok := h.identifyMember(w, r)
	if !ok {
		return
	}
	members, err := h.groups.Members(groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"members": members})
}

func (h *Handler) addGroupMember(w http.ResponseWriter, r *http.Request) {
	_, groupID, ok := h.identifyMember(w, r)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.groups.AddMember(groupID, req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) leaveGroup(w http.ResponseWriter, r *http.Request) {
	identity, groupID, ok := h.identifyMember(w, r)
	if !ok {
		return
	}
	if err := h.groups.RemoveMember(groupID, identity); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// token extracts the session token from the query string or the session
// cookie. WebSocket clients usually pass it as a query parameter.
func (h *Handler) token(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// identify resolves the request's identity, writing a 401 when it cannot.
func (h *Handler) identify(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, err := h.auth.Identify(r.Context(), h.token(r))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			http.Error(w, "authentication required", http.StatusUnauthorized)
		} else {
			http.Error(w, "could not verify identity", http.StatusInternalServerError)
		}
		return "", false
	}
	return identity, true
}

// identifyMember resolves identity and checks group membership in one step.
func (h *Handler) identifyMember(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	identity, ok := h.identify(w, r)
	if !ok {
		return "", uuid.Nil, false
	}
	groupID, err := uuid.Parse(mux.Vars(r)["group_id"])
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return "", uuid.Nil, false
	}
	member, err := h.groups.IsMember(groupID, identity)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			http.Error(w, "group not found", http.StatusNotFound)
		} else {
			http.Error(w, "could not verify membership", http.StatusInternalServerError)
		}
		return "", uuid.Nil, false
	}
	if !member {
		http.Error(w, "not a group member", http.StatusForbidden)
		return "", uuid.Nil, false
	}
	return identity, groupID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, domain.ErrorEvent{Error: err.Error()})
}
