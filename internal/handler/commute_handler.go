package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/generation"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/recommendation"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/signup"
)

type SignupService interface {
	Signup(ctx context.Context, req signup.Request) (*domain.User, error)
}

type RecommendationService interface {
	List(ctx context.Context, userID int64, date time.Time) ([]domain.Recommendation, error)
	Accept(ctx context.Context, userID int64, date, slotStart time.Time) (*recommendation.AcceptResult, error)
}

type GenerationService interface {
	Generate(ctx context.Context, date time.Time) (*generation.Summary, error)
}

type CommuteHandler struct {
	signup          SignupService
	recommendations RecommendationService
	generation      GenerationService
	loc             *time.Location
	now             func() time.Time
}

func NewCommuteHandler(
	signupService SignupService,
	recommendationService RecommendationService,
	generationService GenerationService,
	loc *time.Location,
) *CommuteHandler {
	if loc == nil {
		loc = time.Local
	}
	return &CommuteHandler{
		signup:          signupService,
		recommendations: recommendationService,
		generation:      generationService,
		loc:             loc,
		now:             time.Now,
	}
}

// Register mounts the API routes on r.
func (h *CommuteHandler) Register(r gin.IRouter) {
	r.POST("/signup", h.HandleSignup)
	r.GET("/recommendations/:user_id", h.HandleListRecommendations)
	r.POST("/accept", h.HandleAccept)
	r.POST("/admin/generate", h.HandleGenerate)
}

type signupRequest struct {
	HomeZone     string `json:"home_zone"`
	WorkZone     string `json:"work_zone"`
	FlexMinusMin int    `json:"flex_minus_min"`
	FlexPlusMin  int    `json:"flex_plus_min"`
	EmployerName string `json:"employer_name"`
}

type signupResponse struct {
	UserID int64 `json:"user_id"`
}

func (h *CommuteHandler) HandleSignup(c *gin.Context) {
	ctx := c.Request.Context()

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "signup request unmarshal failed", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	user, err := h.signup.Signup(ctx, signup.Request{
		HomeZone:     req.HomeZone,
		WorkZone:     req.WorkZone,
		FlexMinusMin: req.FlexMinusMin,
		FlexPlusMin:  req.FlexPlusMin,
		EmployerName: req.EmployerName,
	})
	if err != nil {
		if errors.Is(err, signup.ErrInvalidSignup) {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		slog.ErrorContext(ctx, "signup failed", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to sign up")
		return
	}

	c.JSON(http.StatusOK, signupResponse{UserID: user.ID})
}

type recommendationResponse struct {
	Window   string `json:"window"`
	SlotISO  string `json:"slot_iso"`
	ETAMin   int    `json:"eta_min"`
	Rank     int    `json:"rank"`
	Chosen   bool   `json:"chosen"`
	Assigned bool   `json:"assigned"`
}

func (h *CommuteHandler) HandleListRecommendations(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "user_id must be a positive integer")
		return
	}

	date, ok := h.dateParam(c, c.Query("date"))
	if !ok {
		return
	}

	recs, err := h.recommendations.List(ctx, userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "user not found")
			return
		}
		slog.ErrorContext(ctx, "failed to list recommendations",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to list recommendations")
		return
	}

	out := make([]recommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, recommendationResponse{
			Window:   r.Window.String(),
			SlotISO:  r.SlotKey(),
			ETAMin:   r.PredictedETAMin,
			Rank:     r.Rank,
			Chosen:   r.Chosen,
			Assigned: r.Assigned,
		})
	}

	c.JSON(http.StatusOK, out)
}

type acceptRequest struct {
	UserID  int64  `json:"user_id"`
	Date    string `json:"date"`
	SlotISO string `json:"slot_iso"`
}

func (h *CommuteHandler) HandleAccept(c *gin.Context) {
	ctx := c.Request.Context()

	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.UserID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "user_id must be a positive integer")
		return
	}

	date, ok := h.dateParam(c, req.Date)
	if !ok {
		return
	}

	slotStart, err := h.parseSlot(req.SlotISO)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "slot_iso must be YYYY-MM-DDTHH:MM:SS")
		return
	}

	result, err := h.recommendations.Accept(ctx, req.UserID, date, slotStart)
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept recommendation",
			slog.Int64("user_id", req.UserID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to accept recommendation")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CommuteHandler) HandleGenerate(c *gin.Context) {
	ctx := c.Request.Context()

	date, ok := h.dateParam(c, c.Query("date"))
	if !ok {
		return
	}

	summary, err := h.generation.Generate(ctx, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGenerationInProgress):
			respondError(c, http.StatusConflict, "conflict", err.Error())
		case errors.Is(err, domain.ErrNoSlots):
			respondError(c, http.StatusUnprocessableEntity, "no_slots", err.Error())
		default:
			slog.ErrorContext(ctx, "generation failed",
				slog.String("date", domain.DateKey(date)),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusInternalServerError, "processing_error", "generation failed")
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// dateParam parses a YYYY-MM-DD date. An empty value means tomorrow.
func (h *CommuteHandler) dateParam(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return domain.DateOf(h.now().In(h.loc)).AddDate(0, 0, 1), true
	}

	date, err := time.ParseInLocation(time.DateOnly, raw, h.loc)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// parseSlot accepts a wall-clock slot key or an RFC 3339 timestamp.
func (h *CommuteHandler) parseSlot(raw string) (time.Time, error) {
	if t, err := domain.ParseSlotKey(raw, h.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(h.loc), nil
}
