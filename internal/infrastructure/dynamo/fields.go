package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	FieldPasswordHash = "password_hash"
	FieldVerified     = "verified"

	FieldVerificationCode         = "verification_code"
	FieldVerificationCodeIssuedAt = "verification_code_validation"
	FieldForgotCode               = "forgot_password_code"
	FieldForgotCodeIssuedAt       = "forgot_password_code_validation"
)
