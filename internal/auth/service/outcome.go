package service

// Code classifies a business outcome so the HTTP layer can pick a status
// without inspecting message text.
type Code int

const (
	CodeOK Code = iota
	CodeInvalid
	CodeNotFound
	CodeExpired
	CodeUnavailable
	CodeInternal
)

// Outcome is a business-level result. The Message values are part of the
// wire contract with existing clients and must not be reworded.
type Outcome struct {
	OK      bool
	Code    Code
	Message string
}

func ok(msg string) Outcome           { return Outcome{OK: true, Code: CodeOK, Message: msg} }
func fail(c Code, msg string) Outcome { return Outcome{Code: c, Message: msg} }

// Client-facing messages. Existing clients match on these strings, so they
// are preserved verbatim, typos included.
const (
	MsgEmailNotFound     = "We are not able to find your email in the system, Please try again."
	MsgServiceDown       = "Service is temporarily unavailable..try after sometime"
	MsgResetEmailSent    = "Password reset email sent successfully..Check your email"
	MsgInvalidUser       = "Invalid user details"
	MsgResetLinkExpired  = "Your password reset link has been expired, Please generate a different link and try again."
	MsgResetFailed       = "There is some problem. We are not able to reset your password, Please contact to administrator."
	MsgPasswordUpdated   = "Your password has been updated successfully."
	MsgOTPSent           = "OTP sent successfully..Check your email"
	MsgOTPNotFound       = "OTP not found.."
	MsgOTPValid          = "OTP validation sucessfull."
	MsgOTPInvalid        = "Invalid OTP try again."
	MsgLoggedOut         = "Logout Successfully.."
)
