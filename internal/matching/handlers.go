package matching

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/YS8610/matcha-backend/internal/auth"
	"github.com/YS8610/matcha-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Browse returns ranked candidate profiles for the authenticated user.
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	dto, err := ParseBrowseQuery(r.URL.Query())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sortBy, ok := ParseSortKey(dto.SortBy)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown sort key")
		return
	}

	candidates, err := h.service.Browse(r.Context(), viewerID, dto.Filters(), sortBy)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, candidates)
}

// Status reports the connection status between the viewer and a target.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	viewerID, targetID, ok := h.pairIDs(w, r)
	if !ok {
		return
	}

	status, err := h.service.Status(r.Context(), viewerID, targetID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"target_id":  status.TargetID,
		"status":     status.State(),
		"matched":    status.Matched,
		"liked":      status.Liked,
		"liked_back": status.LikedBack,
	})
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pairIDs(w, r)
	if !ok {
		return
	}

	matched, err := h.service.Like(r.Context(), actorID, targetID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"matched": matched})
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pairIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Unlike(r.Context(), actorID, targetID); err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"unliked": true})
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pairIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Block(r.Context(), actorID, targetID); err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"blocked": true})
}

func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pairIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Unblock(r.Context(), actorID, targetID); err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"blocked": false})
}

func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	viewerID, targetID, ok := h.pairIDs(w, r)
	if !ok {
		return
	}

	report, err := h.service.Compatibility(r.Context(), viewerID, targetID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

// LikesReceived returns how many likes the authenticated user has.
func (h *Handler) LikesReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	n, err := h.service.LikesReceived(r.Context(), userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"likes_received": n})
}

// pairIDs extracts the authenticated user and the {userId} path variable.
func (h *Handler) pairIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	viewerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return 0, 0, false
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, 0, false
	}

	return viewerID, targetID, true
}

// respondEngineError maps engine errors to HTTP statuses. Blocked pairs
// answer 403 with no detail about which side blocked.
func respondEngineError(w http.ResponseWriter, err error) {
	var (
		blockedErr     *BlockedError
		requirementErr *RequirementNotMetError
		validationErr  *ValidationError
	)

	switch {
	case errors.As(err, &blockedErr):
		utils.RespondWithError(w, http.StatusForbidden, blockedErr.Error())
	case errors.As(err, &requirementErr):
		utils.RespondWithError(w, http.StatusBadRequest, requirementErr.Error())
	case errors.As(err, &validationErr):
		utils.RespondWithError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, ErrUserNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrSelfAction):
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot perform this action on yourself")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
