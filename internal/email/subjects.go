package email

const (
	subjectVerification        = "Verify your email address"
	subjectPasswordReset       = "Reset your password"
	subjectReportReceived      = "A report was filed against your listing"
	subjectReportWarning       = "Warning: your listing has received multiple reports"
	subjectPropertyDeleted     = "Your listing has been removed"
	subjectStrikeNotice        = "A strike was added to your account"
	subjectAccountDeleted      = "Your account has been suspended"
	subjectTourRequestFmt      = "New tour request for %s"
	subjectTourConfirmationFmt = "Tour request sent for %s"
	subjectTourReminder        = "Reminder: you have an upcoming tour"
)
