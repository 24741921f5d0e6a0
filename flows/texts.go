package flows

import "regexp"

// triggerRe matches the greeting phrases that always return to the main menu.
var triggerRe = regexp.MustCompile(`(?i)^(?:/start|start|hi|hello|안녕|하이|헬로)\s*$`)

// cancelRe matches the global cancel command.
var cancelRe = regexp.MustCompile(`(?i)^/cancel$`)

// User-facing messages. These exact strings are part of the bot's contract
// with its users; edit with care.
const (
	msgMenu = "안녕하세요. 하이파이코리아입니다. 무엇을 도와드릴까요?"

	btnRegister     = "신규 직원 등록"
	btnPurchaseMenu = "구매 요청 및 승인"
	btnSupport      = "문의하기"

	msgRegisterPrompt = "신규 직원 등록을 위해 성함을 입력해 주세요."
	msgRegisterDone   = "%s님 신규 직원 등록이 완료되었습니다 🙇"

	msgPurchaseMenu    = "구매 메뉴입니다. 원하시는 작업을 선택하세요."
	btnPurchaseRequest = "구매 요청"
	btnPurchaseApprove = "구매 승인"
	btnPurchaseMyList  = "내 요청 보기"
	btnGoBack          = "뒤로 가기"

	msgPurchaseStart = "구매 요청을 시작합니다.\n① 물품명을 입력해 주세요."
	msgAskQty        = "② 수량/단위를 입력해 주세요. (예: 1박스, 3세트, 10kg)"
	msgAskPrice      = "③ 가격을 입력해 주세요. (숫자만, 단위 없이)"
	msgPriceRetry    = "❗ 숫자만 입력해 주세요. 다시 입력: 가격"
	msgAskReason     = "④ 구매 사유를 입력해 주세요."
	msgAskNote       = "⑤ 비고(선택)를 입력해 주세요. 없으면 \"없음\"이라고 적어주세요."

	msgAccepted = "구매 요청이 접수되었습니다 ✅\n요청번호: %s\n물품: %s\n수량: %s\n가격: %s"

	msgManagerAlert = "[구매 요청 알림]\n번호: %s\n요청자: %s(%s)\n물품: %s\n수량: %s / 가격: %s\n사유: %s\n비고: %s"
	btnApprove      = "✅ 승인"
	btnReject       = "❌ 반려"

	msgApproveHint  = "승인/반려는 DM으로 오는 알림에서 버튼을 눌러 처리하세요."
	msgPendingEmpty = "대기중인 구매 요청이 없습니다."
	msgMyListHead   = "내 대기중 요청 (최대 %d건)"
	msgPendingHead  = "대기중인 구매 요청 (최대 %d건)"
	btnCancelReq    = "❌ %s 취소"

	msgApproved       = "승인 처리되었습니다."
	msgRejected       = "반려 처리되었습니다."
	msgRejectPrompt   = "반려 사유를 입력해 주세요."
	msgCancelPrompt   = "요청번호 %s 취소 사유를 입력해 주세요."
	msgCanceled       = "요청이 취소되었습니다."
	msgNotOwner       = "본인 요청만 취소할 수 있습니다."
	msgNotFound       = "요청을 찾을 수 없습니다."
	msgAlreadyHandled = "이미 처리된 건입니다. (현재상태: %s)"
	msgNotManager     = "담당자 권한이 없습니다."
	msgNotApproved    = "승인된 직원만 이용할 수 있는 메뉴입니다. 관리자에게 문의해 주세요."

	msgApprovedNotice = "[구매 요청 처리 안내]\n%s 요청이 ✅승인되었습니다.\n처리자: %s"
	msgApprovedResult = "[구매 요청 결과]\n%s 요청이 ✅승인되었습니다.\n처리자: %s"
	msgRejectedNotice = "[구매 요청 처리 안내]\n%s 요청이 ❌반려되었습니다.\n처리자: %s\n사유: %s"
	msgRejectedResult = "[구매 요청 결과]\n%s 요청이 ❌반려되었습니다.\n처리자: %s\n사유: %s"
	msgCanceledNotice = "[구매 요청 취소 안내]\n%s 요청이 사용자가 취소했습니다.\n요청자: %s\n사유: %s"
	msgCanceledResult = "[구매 요청 취소]\n%s 요청이 취소되었습니다."

	msgSupportStart   = "문의하기를 시작합니다.\n① 제목을 입력해 주세요."
	msgSupportDetail  = "② 내용을 입력해 주세요."
	msgSupportPreview = "문의 내용을 확인해 주세요.\n제목: %s\n내용: %s"
	btnSupportSubmit  = "제출"
	btnSupportAbort   = "취소"
	msgSupportDone    = "문의가 접수되었습니다 ✅ (접수번호: %d)"
	msgSupportAborted = "문의가 취소되었습니다."
	msgSupportAlert   = "[문의 알림]\n접수번호: %d\n작성자: %s(%s)\n제목: %s\n내용: %s"

	msgUnknownAction = "지원하지 않는 동작입니다. /start 로 다시 시작해 주세요."

	msgCancelAck  = "취소되었습니다. /start 로 다시 시작하세요."
	msgHintStart  = "메뉴로 돌아가려면 /start 를 입력하세요. (진행 중 취소: /cancel)"
	msgErrGeneric = "처리 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

	msgPendingStats = "대기중인 구매 요청: %d건"
)
