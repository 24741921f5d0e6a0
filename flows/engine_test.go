package flows

import (
	"context"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/state"
	"github.com/sukmine0628/HYPAIKOREA-BOT/employees"
	"github.com/sukmine0628/HYPAIKOREA-BOT/notify"
	"github.com/sukmine0628/HYPAIKOREA-BOT/requests"
	"github.com/sukmine0628/HYPAIKOREA-BOT/support"
)

// fakeContext implements the slice of tele.Context the handlers touch.
// Everything else panics via the embedded nil interface, which is what we
// want in a test.
type fakeContext struct {
	tele.Context
	user  *tele.User
	text  string
	cb    *tele.Callback
	store map[string]interface{}

	sent    []string
	markups []*tele.ReplyMarkup
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{
		user:  &tele.User{ID: userID},
		store: make(map[string]interface{}),
	}
}

func (f *fakeContext) Sender() *tele.User       { return f.user }
func (f *fakeContext) Chat() *tele.Chat         { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Update() tele.Update      { return tele.Update{} }
func (f *fakeContext) Text() string             { return f.text }
func (f *fakeContext) Callback() *tele.Callback { return f.cb }

func (f *fakeContext) Get(key string) interface{} { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	f.store[key] = v
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	var markup *tele.ReplyMarkup
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok && so.ReplyMarkup != nil {
			markup = so.ReplyMarkup
		}
	}
	f.markups = append(f.markups, markup)
	return nil
}

func (f *fakeContext) Respond(...*tele.CallbackResponse) error { return nil }

func (f *fakeContext) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeContext) sentContaining(sub string) bool {
	for _, s := range f.sent {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// empStore is a minimal in-memory employees.Store.
type empStore struct {
	rows map[string]employees.Employee
}

func (s *empStore) Find(_ context.Context, chatID string) (*employees.Employee, error) {
	e, ok := s.rows[chatID]
	if !ok {
		return nil, employees.ErrNotFound
	}
	cp := e
	return &cp, nil
}

func (s *empStore) Upsert(_ context.Context, e *employees.Employee) error {
	if prev, ok := s.rows[e.ChatID]; ok {
		prev.Name = e.Name
		prev.UpdatedAt = e.UpdatedAt
		s.rows[e.ChatID] = prev
		return nil
	}
	s.rows[e.ChatID] = *e
	return nil
}

func (s *empStore) List(_ context.Context) ([]employees.Employee, error) {
	out := make([]employees.Employee, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e)
	}
	return out, nil
}

// reqStore mirrors the Postgres store contract in memory.
type reqStore struct {
	live     map[string]requests.Request
	canceled map[string]requests.Cancellation
	next     int
}

func newReqStore() *reqStore {
	return &reqStore{
		live:     make(map[string]requests.Request),
		canceled: make(map[string]requests.Cancellation),
		next:     1,
	}
}

func (s *reqStore) Create(_ context.Context, r *requests.Request) error {
	r.ReqNo = requests.FormatReqNo(s.next)
	s.next++
	s.live[r.ReqNo] = *r
	return nil
}

func (s *reqStore) Find(_ context.Context, reqNo string) (*requests.Request, error) {
	r, ok := s.live[reqNo]
	if !ok {
		return nil, requests.ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (s *reqStore) FindCancellation(_ context.Context, reqNo string) (*requests.Cancellation, error) {
	c, ok := s.canceled[reqNo]
	if !ok {
		return nil, requests.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (s *reqStore) UpdateDecision(_ context.Context, r *requests.Request) error {
	if _, ok := s.live[r.ReqNo]; !ok {
		return requests.ErrNotFound
	}
	s.live[r.ReqNo] = *r
	return nil
}

func (s *reqStore) Cancel(_ context.Context, reqNo string, log *requests.Cancellation) error {
	if _, ok := s.live[reqNo]; !ok {
		return requests.ErrNotFound
	}
	delete(s.live, reqNo)
	s.canceled[reqNo] = *log
	return nil
}

func (s *reqStore) ListPending(_ context.Context, _ requests.ListOptions) ([]requests.Request, error) {
	var out []requests.Request
	for _, r := range s.live {
		if r.Status == requests.StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reqStore) ListPendingByRequester(_ context.Context, chatID string, _ int) ([]requests.Request, error) {
	var out []requests.Request
	for _, r := range s.live {
		if r.Status == requests.StatusPending && r.RequesterChatID == chatID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reqStore) PendingCount(_ context.Context) (int, error) {
	var n int
	for _, r := range s.live {
		if r.Status == requests.StatusPending {
			n++
		}
	}
	return n, nil
}

type supStore struct {
	tickets []support.Ticket
}

func (s *supStore) Insert(_ context.Context, t *support.Ticket) error {
	t.ID = int64(len(s.tickets) + 1)
	s.tickets = append(s.tickets, *t)
	return nil
}

// outbound records notifier deliveries keyed by recipient.
type outbound struct {
	byChat map[string][]string
}

func (o *outbound) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if o.byChat == nil {
		o.byChat = make(map[string][]string)
	}
	if s, ok := what.(string); ok {
		o.byChat[to.Recipient()] = append(o.byChat[to.Recipient()], s)
	}
	return &tele.Message{}, nil
}

func (o *outbound) got(chatID, sub string) bool {
	for _, s := range o.byChat[chatID] {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fixture struct {
	engine *Engine
	states state.Manager
	emps   *empStore
	reqs   *reqStore
	sup    *supStore
	out    *outbound
}

func newFixture() *fixture {
	emps := &empStore{rows: make(map[string]employees.Employee)}
	reqs := newReqStore()
	sup := &supStore{}
	out := &outbound{}

	empSvc := employees.NewService(emps)
	ntf := notify.New(empSvc)
	ntf.SetSender(out)
	states := state.NewMemoryManager()

	e := New(empSvc, requests.NewService(reqs), support.NewService(sup), ntf, states, Config{
		ListOrder:        requests.OrderDesc,
		MyListLimit:      10,
		ManagerListLimit: 20,
	})
	e.BindStates()
	return &fixture{engine: e, states: states, emps: emps, reqs: reqs, sup: sup, out: out}
}

func (fx *fixture) addEmployee(chatID, name string, manager, approved bool) {
	e := employees.Employee{ChatID: chatID, Name: name, UpdatedAt: time.Now()}
	if manager {
		e.ManagerMarker = employees.ManagerMarker
	}
	if approved {
		e.ApprovalMarker = employees.ApprovalMarker
	}
	fx.emps.rows[chatID] = e
}

// say feeds a text message through the FSM dispatch path.
func (fx *fixture) say(t *testing.T, c *fakeContext, text string) {
	t.Helper()
	c.text = text
	if err := fx.states.ManagerHandler(c); err != nil {
		t.Fatalf("dispatch %q: %v", text, err)
	}
}

func (fx *fixture) press(t *testing.T, c *fakeContext, handler func(tele.Context) error, payload string) {
	t.Helper()
	c.cb = &tele.Callback{Data: payload}
	if err := handler(c); err != nil {
		t.Fatalf("callback: %v", err)
	}
	c.cb = nil
}

func TestTriggerPhrases(t *testing.T) {
	fx := newFixture()
	for _, phrase := range []string{"/start", "start", "HI", "hello", "안녕", "하이", "헬로", "안녕  "} {
		if _, ok := fx.engine.Interrupt(phrase); !ok {
			t.Errorf("Interrupt(%q) should match", phrase)
		}
	}
	for _, phrase := range []string{"menu", "안녕하세요", "start now", ""} {
		if _, ok := fx.engine.Interrupt(phrase); ok {
			t.Errorf("Interrupt(%q) should not match", phrase)
		}
	}
}

func TestTriggerInterruptsFlow(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.PurchaseRequest, "")
	if fx.states.GetState(100) != StatePurchaseItem {
		t.Fatalf("state = %s", fx.states.GetState(100))
	}

	h, ok := fx.engine.Interrupt("안녕")
	if !ok {
		t.Fatal("trigger not matched")
	}
	if err := h(c); err != nil {
		t.Fatalf("menu: %v", err)
	}
	if fx.states.InProgress(100) {
		t.Fatal("flow not cleared by trigger")
	}
	if c.lastSent() != msgMenu {
		t.Fatalf("last sent = %q", c.lastSent())
	}
}

func TestCancelCommandClearsState(t *testing.T) {
	fx := newFixture()
	c := newFakeContext(100)
	fx.states.SetState(100, StatePurchasePrice)

	h, ok := fx.engine.Interrupt("/cancel")
	if !ok {
		t.Fatal("cancel not matched")
	}
	if err := h(c); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if fx.states.InProgress(100) {
		t.Fatal("state survived /cancel")
	}
	if c.lastSent() != msgCancelAck {
		t.Fatalf("last sent = %q", c.lastSent())
	}
}

func TestRegisterFlow(t *testing.T) {
	fx := newFixture()
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.RegisterStart, "")
	if fx.states.GetState(100) != StateRegisterName {
		t.Fatalf("state = %s", fx.states.GetState(100))
	}

	fx.say(t, c, "김철수")
	if _, ok := fx.emps.rows["100"]; !ok {
		t.Fatal("employee not stored")
	}
	if !c.sentContaining("김철수님 신규 직원 등록이 완료되었습니다") {
		t.Fatalf("confirmation missing, sent: %v", c.sent)
	}
	if c.lastSent() != msgMenu {
		t.Fatal("menu not re-shown after registration")
	}
}

func TestPurchaseMenuRequiresApproval(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, false)
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.PurchaseMenu, "")
	if c.lastSent() != msgNotApproved {
		t.Fatalf("last sent = %q", c.lastSent())
	}
}

func TestPurchaseFlowEndToEnd(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	fx.addEmployee("200", "박부장", true, true)
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.PurchaseRequest, "")
	fx.say(t, c, "모니터")
	fx.say(t, c, "2대")
	fx.say(t, c, "1,200,000")
	fx.say(t, c, "업무용 장비 교체")
	fx.say(t, c, "없음")

	r, ok := fx.reqs.live["구매-001"]
	if !ok {
		t.Fatalf("request not stored, live: %v", fx.reqs.live)
	}
	if r.Price != 1200000 || r.Item != "모니터" || r.Qty != "2대" {
		t.Fatalf("stored = %+v", r)
	}
	if r.Status != requests.StatusPending {
		t.Fatalf("status = %s", r.Status)
	}
	if !c.sentContaining("구매 요청이 접수되었습니다") || !c.sentContaining("구매-001") {
		t.Fatalf("confirmation missing, sent: %v", c.sent)
	}
	if !fx.out.got("200", "[구매 요청 알림]") || !fx.out.got("200", "구매-001") {
		t.Fatalf("manager alert missing: %v", fx.out.byChat)
	}
	if fx.states.InProgress(100) {
		t.Fatal("state not cleared after submission")
	}
	if c.lastSent() != msgMenu {
		t.Fatal("menu not re-shown after submission")
	}
}

func TestPurchasePriceRetry(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.PurchaseRequest, "")
	fx.say(t, c, "모니터")
	fx.say(t, c, "2대")
	fx.say(t, c, "비싸요")

	if fx.states.GetState(100) != StatePurchasePrice {
		t.Fatalf("state = %s, want price retry", fx.states.GetState(100))
	}
	if c.lastSent() != msgPriceRetry {
		t.Fatalf("last sent = %q", c.lastSent())
	}

	fx.say(t, c, "450000")
	if fx.states.GetState(100) != StatePurchaseReason {
		t.Fatalf("state = %s after valid price", fx.states.GetState(100))
	}
}

func TestApproveRequiresManager(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	fx.reqs.live["구매-001"] = requests.Request{
		ReqNo: "구매-001", RequesterChatID: "100", Status: requests.StatusPending,
	}
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.ApproveCallback, "approve|구매-001")
	if c.lastSent() != msgNotManager {
		t.Fatalf("last sent = %q", c.lastSent())
	}
	if fx.reqs.live["구매-001"].Status != requests.StatusPending {
		t.Fatal("request mutated by unauthorized approve")
	}
}

func TestApproveFlow(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	fx.addEmployee("200", "박부장", true, true)
	fx.reqs.live["구매-001"] = requests.Request{
		ReqNo: "구매-001", RequesterChatID: "100", RequesterName: "김철수",
		Status: requests.StatusPending, RequestedAt: time.Now(),
	}
	mgr := newFakeContext(200)

	fx.press(t, mgr, fx.engine.ApproveCallback, "approve|구매-001")

	r := fx.reqs.live["구매-001"]
	if r.Status != requests.StatusApproved || r.ActorName != "박부장" {
		t.Fatalf("row = %+v", r)
	}
	if mgr.lastSent() != msgApproved {
		t.Fatalf("last sent = %q", mgr.lastSent())
	}
	if !fx.out.got("100", "✅승인되었습니다") {
		t.Fatalf("requester not notified: %v", fx.out.byChat)
	}
	if !fx.out.got("200", "[구매 요청 처리 안내]") {
		t.Fatalf("managers not notified: %v", fx.out.byChat)
	}

	// Second press reports the existing decision without rewriting it.
	fx.press(t, mgr, fx.engine.ApproveCallback, "approve|구매-001")
	if !mgr.sentContaining("이미 처리된 건입니다. (현재상태: 승인)") {
		t.Fatalf("already-handled notice missing, sent: %v", mgr.sent)
	}
}

func TestRejectFlow(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	fx.addEmployee("200", "박부장", true, true)
	fx.reqs.live["구매-001"] = requests.Request{
		ReqNo: "구매-001", RequesterChatID: "100", RequesterName: "김철수",
		Status: requests.StatusPending, RequestedAt: time.Now(),
	}
	mgr := newFakeContext(200)

	fx.press(t, mgr, fx.engine.RejectCallback, "reject|구매-001")
	if fx.states.GetState(200) != StateRejectReason {
		t.Fatalf("state = %s", fx.states.GetState(200))
	}
	if mgr.lastSent() != msgRejectPrompt {
		t.Fatalf("last sent = %q", mgr.lastSent())
	}

	fx.say(t, mgr, "예산 초과")
	r := fx.reqs.live["구매-001"]
	if r.Status != requests.StatusRejected || r.RejectReason != "예산 초과" {
		t.Fatalf("row = %+v", r)
	}
	if !fx.out.got("100", "사유: 예산 초과") {
		t.Fatalf("requester not told the reason: %v", fx.out.byChat)
	}
	if fx.states.InProgress(200) {
		t.Fatal("reject state not cleared")
	}
}

func TestCancelFlowOwnership(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	fx.addEmployee("200", "박부장", true, true)
	fx.reqs.live["구매-001"] = requests.Request{
		ReqNo: "구매-001", RequesterChatID: "100", RequesterName: "김철수",
		Status: requests.StatusPending, RequestedAt: time.Now(),
	}

	stranger := newFakeContext(300)
	fx.press(t, stranger, fx.engine.CancelCallback, "cancel|구매-001")
	fx.say(t, stranger, "그냥요")
	if stranger.lastSent() != msgNotOwner {
		t.Fatalf("last sent = %q", stranger.lastSent())
	}
	if _, ok := fx.reqs.live["구매-001"]; !ok {
		t.Fatal("request removed by non-owner")
	}

	owner := newFakeContext(100)
	fx.press(t, owner, fx.engine.CancelCallback, "cancel|구매-001")
	fx.say(t, owner, "주문 착오")
	if owner.lastSent() != msgCanceled {
		t.Fatalf("last sent = %q", owner.lastSent())
	}
	if _, ok := fx.reqs.live["구매-001"]; ok {
		t.Fatal("live row survived cancellation")
	}
	if _, ok := fx.reqs.canceled["구매-001"]; !ok {
		t.Fatal("cancellation not logged")
	}
	if !fx.out.got("200", "[구매 요청 취소 안내]") {
		t.Fatalf("managers not notified: %v", fx.out.byChat)
	}
}

func TestApproveAfterCancelReportsCanceled(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("200", "박부장", true, true)
	fx.reqs.canceled["구매-001"] = requests.Cancellation{ReqNo: "구매-001"}
	mgr := newFakeContext(200)

	fx.press(t, mgr, fx.engine.ApproveCallback, "approve|구매-001")
	if !mgr.sentContaining("이미 처리된 건입니다. (현재상태: 취소)") {
		t.Fatalf("sent: %v", mgr.sent)
	}
}

func TestMyListShowsCancelButtons(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	fx.reqs.live["구매-001"] = requests.Request{
		ReqNo: "구매-001", RequesterChatID: "100", Item: "모니터", Qty: "2대",
		Price: 450000, Status: requests.StatusPending, RequestedAt: time.Now(),
	}
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.MyList, "")
	if !c.sentContaining("구매-001") || !c.sentContaining("₩450,000") {
		t.Fatalf("listing missing fields, sent: %v", c.sent)
	}
	last := c.markups[len(c.markups)-1]
	if last == nil || len(last.InlineKeyboard) != 1 {
		t.Fatalf("cancel buttons missing: %+v", last)
	}
}

func TestSupportFlow(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, true)
	fx.addEmployee("200", "박부장", true, true)
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.SupportStart, "")
	fx.say(t, c, "VPN 문의")
	fx.say(t, c, "재택에서 접속이 안 됩니다")
	if fx.states.GetState(100) != StateSupportConfirm {
		t.Fatalf("state = %s", fx.states.GetState(100))
	}
	if !c.sentContaining("문의 내용을 확인해 주세요") {
		t.Fatalf("preview missing, sent: %v", c.sent)
	}

	fx.press(t, c, fx.engine.SupportSubmit, "")
	if len(fx.sup.tickets) != 1 {
		t.Fatalf("tickets = %d", len(fx.sup.tickets))
	}
	tk := fx.sup.tickets[0]
	if tk.Subject != "VPN 문의" || tk.RequesterChatID != "100" {
		t.Fatalf("ticket = %+v", tk)
	}
	if !fx.out.got("200", "[문의 알림]") {
		t.Fatalf("managers not notified: %v", fx.out.byChat)
	}
	if fx.states.InProgress(100) {
		t.Fatal("support state not cleared")
	}
}

func TestSupportRequiresApproval(t *testing.T) {
	fx := newFixture()
	fx.addEmployee("100", "김철수", false, false)
	c := newFakeContext(100)

	fx.press(t, c, fx.engine.SupportStart, "")
	if c.lastSent() != msgNotApproved {
		t.Fatalf("last sent = %q", c.lastSent())
	}
	if fx.states.InProgress(100) {
		t.Fatal("support flow started without approval")
	}
}

func TestUnknownTextHint(t *testing.T) {
	fx := newFixture()
	c := newFakeContext(100)
	if err := fx.engine.Hint(c); err != nil {
		t.Fatalf("hint: %v", err)
	}
	if c.lastSent() != msgHintStart {
		t.Fatalf("last sent = %q", c.lastSent())
	}
}
