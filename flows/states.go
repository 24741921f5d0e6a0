package flows

import "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/state"

// Conversation states. One flow per chat; entering a new flow overwrites the
// previous state.
const (
	StateRegisterName state.State = "register_name"

	StatePurchaseItem   state.State = "purchase_item"
	StatePurchaseQty    state.State = "purchase_qty"
	StatePurchasePrice  state.State = "purchase_price"
	StatePurchaseReason state.State = "purchase_reason"
	StatePurchaseNote   state.State = "purchase_note"

	StateRejectReason state.State = "reject_reason"
	StateCancelReason state.State = "cancel_reason"

	StateSupportSubject state.State = "support_subject"
	StateSupportDetail  state.State = "support_detail"
	StateSupportConfirm state.State = "support_confirm"
)

// Temp data keys scoped to the active flow.
const (
	tmpItem    = "item"
	tmpQty     = "qty"
	tmpPrice   = "price"
	tmpReason  = "reason"
	tmpReqNo   = "req_no"
	tmpSubject = "subject"
	tmpDetail  = "detail"
)

// Callback keys. The decision keys carry a request number payload.
const (
	cbRegisterStart   = "register_start"
	cbPurchaseMenu    = "purchase_menu"
	cbPurchaseRequest = "purchase_request"
	cbPurchaseApprove = "purchase_approve"
	cbPurchaseMyList  = "purchase_mylist"
	cbGoBack          = "go_back"
	cbApprove         = "approve"
	cbReject          = "reject"
	cbCancel          = "cancel"
	cbSupportStart    = "support_start"
	cbSupportSubmit   = "support_submit"
	cbSupportAbort    = "support_abort"
)
