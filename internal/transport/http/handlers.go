package httptransport

import (
	"net/http"

	"onboard/internal/device"
	"onboard/internal/domain"
	"onboard/pkg/platform/httputil"
)

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	deviceName := device.ParseUserAgent(r.UserAgent())
	sess, err := h.registry.Create(deviceName)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID,
		Device:    sess.Device,
	})
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	if err := h.journal.Drop(r.Context(), sess.Orchestrator.JourneyID()); err != nil {
		h.logger.Warn("journal drop failed", "session_id", sess.ID, "error", err)
	}
	h.registry.Remove(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	entries, err := h.journal.ListByJourney(r.Context(), sess.Orchestrator.JourneyID())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleSubmitPhone(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[submitPhoneRequest](w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.SubmitPhoneNumber(r.Context(), req.PhoneNumber); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleSubmitOTP(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[submitOTPRequest](w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.SubmitOTP(r.Context(), req.Code); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleResend(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.RequestResend(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleChooseChannel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[chooseChannelRequest](w, r)
	if !ok {
		return
	}
	channel, err := domain.ParseVerificationChannel(req.Channel)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := sess.Orchestrator.ChooseVerificationChannel(r.Context(), channel); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleConsent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[consentRequest](w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.ConfirmExternalIDSharing(r.Context(), req.Consent); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.CancelActiveSubflow(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleConfirmDetails(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.ConfirmDetails(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleAcceptTerms(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[acceptTermsRequest](w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.AcceptTerms(r.Context(), req.Accept); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[submitProfileRequest](w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.SubmitProfile(r.Context(), req.Email, req.EmailConfirmation, req.Addresses); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.withSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[restartRequest](w, r)
	if !ok {
		return
	}
	if err := sess.Orchestrator.Restart(r.Context(), req.EnableBiometric); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Orchestrator.Snapshot())
}
