package domain

// DefaultPostHour is the local hour the daily question goes out when none is configured
const DefaultPostHour = 10

// NoQuestionsPlaceholder is announced when the pending pool is empty
const NoQuestionsPlaceholder = "<No questions remain>"

// Messages shown to command invokers and to the moderation channel
const (
	MsgSubmitted          = "Prompt Submitted!\nYour prompt will undergo review. Keep an eye out for it in future QoTD!"
	MsgSubmitFailed       = "There was an issue receiving your submission."
	MsgEmptyPrompt        = "Your prompt cannot be empty."
	MsgReviewDenied       = "Only administrators are allowed to review QoTD submissions."
	MsgForceDenied        = "Only administrators are allowed to manually post QoTD."
	MsgBeginReview        = "Beginning Review..."
	MsgNoSubmissions      = "There are currently no submissions to review!"
	MsgReviewFailed       = "There was an issue loading submissions."
	MsgApproved           = "Prompt Approved!"
	MsgRejected           = "Prompt Rejected!"
	MsgApproveFailed      = "Error approving prompt."
	MsgRejectFailed       = "Error rejecting prompt."
	MsgCommandReceived    = "Command received"
	MsgPostFailed         = "There was an error posting the Question of The Day"
	MsgRemainingFormat    = "%d Days of QoTDs remaining."
	MsgPendingFooter      = "%d submissions awaiting review"
	MsgAnnouncementFormat = " %s #%d\n\t\t%s"
)

// Component IDs for the review buttons, shared by every transport
const (
	ActionApprove = "review_approve"
	ActionReject  = "review_reject"
)
