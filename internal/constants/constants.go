package constants

// Payment status constants.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment method constants.
const (
	PaymentMethodGateway = "gateway"
	PaymentMethodCOD     = "cod"
)

// Payment attempt outcome constants.
const (
	AttemptOutcomeInitiated = "initiated"
	AttemptOutcomeSuccess   = "success"
	AttemptOutcomeFailed    = "failed"
)

// Status change actor constants.
const (
	ActorUser    = "user"
	ActorAdmin   = "admin"
	ActorSystem  = "system"
	ActorGateway = "gateway"
)

// GatewaySignatureHeader carries the webhook HMAC signature.
const GatewaySignatureHeader = "X-Upigate-Signature"

// Gateway webhook event constants.
const (
	GatewayEventPaymentCaptured = "payment.captured"
	GatewayEventPaymentFailed   = "payment.failed"
)

// Coupon type constants.
const (
	CouponTypePercent = "percent"
	CouponTypeFlat    = "flat"
)

// User status constants.
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// Queue and task name constants.
const (
	QueueDefault           = "default"
	TaskOrderPaymentExpire = "order:payment_expire"
	TaskOrderStatusNotify  = "order:status_notify"
)

// Cache key prefix default.
const (
	RedisPrefixDefault = "sh"
)

// Order number format constants.
const (
	OrderNoPrefix     = "SH"
	OrderNoSeqDigits  = 4
	OrderNoDateFormat = "20060102"
)

// OTP login constants.
const (
	OTPLength         = 6
	OTPPurposeLogin   = "login"
	OTPMaxVerifyTries = 5
)
