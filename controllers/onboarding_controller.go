package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sachahurley/betterfly-app/middleware"
	"github.com/sachahurley/betterfly-app/onboarding"
	"github.com/sachahurley/betterfly-app/utils"
)

// OnboardingController exposes onboarding sessions over HTTP.
type OnboardingController struct {
	registry    *onboarding.Registry
	tokens      *utils.SessionTokens
	revocations *utils.RevocationList
}

// NewOnboardingController creates a new OnboardingController instance.
func NewOnboardingController(registry *onboarding.Registry, tokens *utils.SessionTokens, revocations *utils.RevocationList) *OnboardingController {
	return &OnboardingController{registry: registry, tokens: tokens, revocations: revocations}
}

type answerRequest struct {
	Value string `json:"value"`
}

type continueRequest struct {
	Edit bool `json:"edit"`
}

type selectOptionRequest struct {
	OptionID int `json:"option_id" binding:"required"`
}

type closeInformationalRequest struct {
	HideAgain bool `json:"hide_again"`
}

// session loads the caller's session. On failure the error response is
// already written.
func (o *OnboardingController) session(ctx *gin.Context) (*onboarding.Session, bool) {
	s, err := o.registry.Get(middleware.SessionID(ctx))
	if err != nil {
		respondSessionError(ctx, err)
		return nil, false
	}
	return s, true
}

// CreateSession starts a new onboarding session and issues its token.
func (o *OnboardingController) CreateSession(ctx *gin.Context) {
	s, err := o.registry.Create()
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	token, exp, err := o.tokens.Generate(s.ID())
	if err != nil {
		utils.Logger.Error("issue session token failed", zap.Error(err))
		o.registry.Forget(s.ID())
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to issue session token")
		return
	}
	utils.Created(ctx, gin.H{
		"session_id": s.ID(),
		"token":      token,
		"expires_at": exp,
	})
}

// GetState returns answers, coins, completion and the pending step.
func (o *OnboardingController) GetState(ctx *gin.Context) {
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, s.Snapshot())
}

// SetAnswer stores the answer to a main question.
func (o *OnboardingController) SetAnswer(ctx *gin.Context) {
	key := onboarding.QuestionKey(ctx.Param("key"))
	if !onboarding.ValidQuestionKey(key) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "unknown question")
		return
	}
	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	if err := s.SetAnswer(key, utils.SanitizeAnswer(req.Value)); err != nil {
		respondSessionError(ctx, err)
		return
	}
	utils.Success(ctx, s.Snapshot())
}

// Continue runs the progression sequence for leaving a page.
func (o *OnboardingController) Continue(ctx *gin.Context) {
	var req continueRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
			return
		}
	}
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	progress, err := s.Continue(ctx.Param("page"), req.Edit)
	respondProgress(ctx, progress, err)
}

// SelectFollowUp answers the pending follow-up question.
func (o *OnboardingController) SelectFollowUp(ctx *gin.Context) {
	var req selectOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "option_id is required")
		return
	}
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	progress, err := s.SelectOption(req.OptionID)
	respondProgress(ctx, progress, err)
}

// SkipFollowUp dismisses the pending follow-up question.
func (o *OnboardingController) SkipFollowUp(ctx *gin.Context) {
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	progress, err := s.SkipFollowUp()
	respondProgress(ctx, progress, err)
}

// CloseInformational closes the pending informational prompt.
func (o *OnboardingController) CloseInformational(ctx *gin.Context) {
	var req closeInformationalRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
			return
		}
	}
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	progress, err := s.CloseInformational(req.HideAgain)
	respondProgress(ctx, progress, err)
}

// AcknowledgeToast dismisses the pending coin toast.
func (o *OnboardingController) AcknowledgeToast(ctx *gin.Context) {
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	progress, err := s.Acknowledge()
	respondProgress(ctx, progress, err)
}

// CompleteReview pays the review bonus.
func (o *OnboardingController) CompleteReview(ctx *gin.Context) {
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	progress, err := s.CompleteReview()
	respondProgress(ctx, progress, err)
}

// GetReview lists answered questions and follow-up answers.
func (o *OnboardingController) GetReview(ctx *gin.Context) {
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, s.Review())
}

// Reset clears the session's progress and keeps the session usable.
func (o *OnboardingController) Reset(ctx *gin.Context) {
	s, ok := o.session(ctx)
	if !ok {
		return
	}
	if err := s.Reset(); err != nil {
		respondSessionError(ctx, err)
		return
	}
	utils.Success(ctx, s.Snapshot())
}

// Complete finishes onboarding: state is cleared and the token is revoked.
func (o *OnboardingController) Complete(ctx *gin.Context) {
	id := middleware.SessionID(ctx)
	if err := o.registry.Complete(id); err != nil {
		respondSessionError(ctx, err)
		return
	}
	if v, ok := ctx.Get(middleware.ContextClaimsKey); ok {
		if claims, ok := v.(*utils.SessionClaims); ok && claims.ExpiresAt != nil {
			o.revocations.Revoke(ctx.GetString(middleware.ContextTokenKey), claims.ExpiresAt.Time)
		}
	}
	utils.Success(ctx, gin.H{"session_id": id, "completed": true})
}

func respondProgress(ctx *gin.Context, progress onboarding.Progress, err error) {
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	utils.Success(ctx, progress)
}

func respondSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, onboarding.ErrInFlight):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	case errors.Is(err, onboarding.ErrNoPendingStep):
		utils.Error(ctx, http.StatusConflict, 40902, err.Error())
	case errors.Is(err, onboarding.ErrWrongStep):
		utils.Error(ctx, http.StatusConflict, 40903, err.Error())
	case errors.Is(err, onboarding.ErrUnknownOption):
		utils.Error(ctx, http.StatusBadRequest, 40002, err.Error())
	case errors.Is(err, onboarding.ErrUnknownQuestion):
		utils.Error(ctx, http.StatusBadRequest, 40003, err.Error())
	case errors.Is(err, onboarding.ErrUnknownPage):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	case errors.Is(err, onboarding.ErrSessionClosed):
		utils.Error(ctx, http.StatusGone, 41001, err.Error())
	case errors.Is(err, onboarding.ErrStateUnavailable):
		utils.Logger.Warn("onboarding state unavailable", zap.Error(err))
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, onboarding.ErrStateUnavailable.Error())
	default:
		utils.Logger.Error("onboarding request failed", zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}
