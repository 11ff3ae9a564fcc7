package httptransport

// Request bodies for the presentation-layer contract. Everything is JSON;
// validation happens in the domain and orchestrator, not here.

type submitPhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type submitOTPRequest struct {
	Code string `json:"code"`
}

type chooseChannelRequest struct {
	Channel string `json:"channel"`
}

type consentRequest struct {
	Consent bool `json:"consent"`
}

type acceptTermsRequest struct {
	Accept bool `json:"accept"`
}

type submitProfileRequest struct {
	Email             string   `json:"email"`
	EmailConfirmation string   `json:"email_confirmation"`
	Addresses         []string `json:"addresses"`
}

type restartRequest struct {
	EnableBiometric bool `json:"enable_biometric"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Device    string `json:"device"`
}
