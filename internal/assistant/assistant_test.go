package assistant

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"

	"google.golang.org/genai"

	"github.com/erazemk/gripcheck/internal/crew"
	"github.com/erazemk/gripcheck/internal/inventory"
	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/notify"
	"github.com/erazemk/gripcheck/internal/store"
	"github.com/erazemk/gripcheck/internal/validate"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *inventory.Engine) {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemoryKV()
	engine := inventory.New(store.NewEquipmentRepo(ctx, kv), notify.Discard{})
	roster := crew.NewDirectory(store.NewCrewRepo(ctx, kv), validate.New())
	return NewDispatcher(engine, roster), engine
}

func TestParseAction(t *testing.T) {
	act, err := ParseAction(NameCheckOutGear, map[string]any{
		"serialNumber": " CS-40-001 ",
		"userName":     "John Doe",
	})
	if err != nil {
		t.Fatalf("ParseAction: %v", err)
	}
	want := CheckOutGear{SerialNumber: "CS-40-001", UserName: "John Doe"}
	if !reflect.DeepEqual(act, want) {
		t.Errorf("expected %+v, got %+v", want, act)
	}

	act, err = ParseAction(NameGetInventorySummary, nil)
	if err != nil {
		t.Fatalf("ParseAction summary: %v", err)
	}
	if _, ok := act.(GetInventorySummary); !ok {
		t.Errorf("expected GetInventorySummary, got %T", act)
	}

	_, err = ParseAction(NameReportDamage, map[string]any{"serialNumber": "CM-002", "description": "  "})
	if !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}

	_, err = ParseAction("deleteEverything", map[string]any{})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestDispatchCheckOutUsesRosterPosition(t *testing.T) {
	d, engine := newTestDispatcher(t)

	res := d.Dispatch(context.Background(), NameCheckOutGear, map[string]any{
		"serialNumber": "cs-40-001",
		"userName":     "sarah miller",
		"project":      "Night Shoot",
	})
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Message)
	}

	item := engine.Get("1")
	if item.Status != model.StatusCheckedOut {
		t.Errorf("expected Checked Out, got %s", item.Status)
	}
	if item.CurrentHolder != "Sarah Miller" || item.CurrentHolderPosition != "Best Boy Electric" {
		t.Errorf("unexpected holder: %s (%s)", item.CurrentHolder, item.CurrentHolderPosition)
	}
	if item.CurrentProject != "Night Shoot" {
		t.Errorf("expected project Night Shoot, got %q", item.CurrentProject)
	}
	if got := res.Response(); !reflect.DeepEqual(got, map[string]any{"result": "ok, action performed"}) {
		t.Errorf("unexpected tool response: %v", got)
	}
}

func TestDispatchCheckOutStrangerGetsDefaultPosition(t *testing.T) {
	d, engine := newTestDispatcher(t)

	res := d.Dispatch(context.Background(), NameCheckOutGear, map[string]any{
		"serialNumber": "LT-600D-05",
		"userName":     "Dana Cole",
	})
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if got := engine.Get("4").CurrentHolderPosition; got != DefaultPosition {
		t.Errorf("expected %q, got %q", DefaultPosition, got)
	}
}

func TestDispatchCheckOutUnavailable(t *testing.T) {
	d, engine := newTestDispatcher(t)

	res := d.Dispatch(context.Background(), NameCheckOutGear, map[string]any{
		"serialNumber": "CM-002",
		"userName":     "John Doe",
	})
	if res.OK {
		t.Fatal("expected failure for checked out gear")
	}
	if !strings.Contains(res.Message, "not available") {
		t.Errorf("expected 'not available' in %q", res.Message)
	}
	if got := engine.Get("2").CurrentHolder; got != "Sarah Miller" {
		t.Errorf("holder changed to %q", got)
	}
	if _, ok := res.Response()["error"]; !ok {
		t.Errorf("expected error key in %v", res.Response())
	}
}

func TestDispatchUnknownSerial(t *testing.T) {
	d, _ := newTestDispatcher(t)

	res := d.Dispatch(context.Background(), NameCheckInGear, map[string]any{"serialNumber": "NOPE-1"})
	if res.OK {
		t.Fatal("expected failure for unknown serial")
	}
	want := map[string]any{"error": "no equipment with serial NOPE-1"}
	if got := res.Response(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDispatchCheckInAndDamage(t *testing.T) {
	d, engine := newTestDispatcher(t)
	ctx := context.Background()

	res := d.Dispatch(ctx, NameCheckInGear, map[string]any{"serialNumber": "CM-002", "notes": "All good"})
	if !res.OK {
		t.Fatalf("check in: %q", res.Message)
	}
	item := engine.Get("2")
	if item.Status != model.StatusAvailable || item.CurrentHolder != "" {
		t.Errorf("unexpected item after check in: %s held by %q", item.Status, item.CurrentHolder)
	}
	if item.History[0].User != Actor || item.History[0].Notes != "All good" {
		t.Errorf("unexpected history entry: %+v", item.History[0])
	}

	res = d.Dispatch(ctx, NameReportDamage, map[string]any{"serialNumber": "SB-20-112", "description": "Torn seam"})
	if !res.OK {
		t.Fatalf("report damage: %q", res.Message)
	}
	item = engine.Get("6")
	if item.Status != model.StatusDamaged {
		t.Errorf("expected Damaged, got %s", item.Status)
	}
	if item.History[0].Type != model.TxDamageReport || item.History[0].Notes != "Torn seam" {
		t.Errorf("unexpected history entry: %+v", item.History[0])
	}
}

func TestDispatchSummary(t *testing.T) {
	d, _ := newTestDispatcher(t)

	res := d.Dispatch(context.Background(), NameGetInventorySummary, map[string]any{"category": "stands"})
	if !res.OK || res.Summary == nil {
		t.Fatalf("expected summary, got %+v", res)
	}
	if res.Summary.Total != 2 {
		t.Errorf("expected 2 items, got %d", res.Summary.Total)
	}
	if want := "2 items for stands: 1 Available, 1 Checked Out."; res.Message != want {
		t.Errorf("expected %q, got %q", want, res.Message)
	}
	if res.Response()["summary"] != res.Message {
		t.Errorf("expected summary in tool response, got %v", res.Response())
	}
}

type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	calls []fakeCall
}

type fakeCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, fakeCall{model, contents, config})
	return f.resp, f.err
}

func responseWith(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: string(genai.RoleModel), Parts: parts}}},
	}
}

func TestChatRunsFunctionCalls(t *testing.T) {
	d, engine := newTestDispatcher(t)
	gen := &fakeGenerator{resp: responseWith(
		&genai.Part{FunctionCall: &genai.FunctionCall{
			Name: NameCheckInGear,
			Args: map[string]any{"serialNumber": "AB-SET-03"},
		}},
	)}
	chat := NewChat(gen, "chat-model", 0.7, d, engine.List)

	reply, err := chat.Send(context.Background(), "James brought the apple boxes back")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Text != FallbackReply {
		t.Errorf("expected fallback reply, got %q", reply.Text)
	}
	if len(reply.Actions) != 1 || !reply.Actions[0].OK {
		t.Fatalf("expected one successful action, got %+v", reply.Actions)
	}
	if got := engine.Get("5").Status; got != model.StatusAvailable {
		t.Errorf("expected Available, got %s", got)
	}

	if len(gen.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(gen.calls))
	}
	call := gen.calls[0]
	if call.model != "chat-model" {
		t.Errorf("expected chat-model, got %s", call.model)
	}
	if call.config.Temperature == nil {
		t.Fatal("expected temperature to be set")
	}
	if diff := *call.config.Temperature - 0.7; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("expected temperature 0.7, got %v", *call.config.Temperature)
	}
	if n := len(call.config.Tools[0].FunctionDeclarations); n != 4 {
		t.Errorf("expected 4 function declarations, got %d", n)
	}
	want := "- Combo Stand (3-Riser) (CM-002): Checked Out held by Sarah Miller"
	if !strings.Contains(call.config.SystemInstruction.Parts[0].Text, want) {
		t.Errorf("expected inventory line %q in system instruction", want)
	}
}

func TestChatKeepsHistory(t *testing.T) {
	d, engine := newTestDispatcher(t)
	gen := &fakeGenerator{resp: responseWith(&genai.Part{Text: "Three C-stands and a flag."})}
	chat := NewChat(gen, "chat-model", 0.7, d, engine.List)
	ctx := context.Background()

	reply, err := chat.Send(ctx, "What do I need for a 3-point setup?")
	if err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if reply.Text != "Three C-stands and a flag." || len(reply.Actions) != 0 {
		t.Errorf("unexpected reply: %+v", reply)
	}

	if _, err := chat.Send(ctx, "And sandbags?"); err != nil {
		t.Fatalf("second Send: %v", err)
	}

	second := gen.calls[1].contents
	if len(second) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(second))
	}
	if second[0].Role != string(genai.RoleUser) || second[1].Role != string(genai.RoleModel) {
		t.Errorf("unexpected roles: %s, %s", second[0].Role, second[1].Role)
	}
	if second[2].Parts[0].Text != "And sandbags?" {
		t.Errorf("expected latest prompt last, got %q", second[2].Parts[0].Text)
	}

	history := chat.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(history))
	}
	if history[1].Role != RoleAssistant {
		t.Errorf("expected assistant reply, got %s", history[1].Role)
	}

	chat.Reset()
	if n := len(chat.History()); n != 0 {
		t.Errorf("expected empty history after reset, got %d", n)
	}
}

func TestChatNetworkError(t *testing.T) {
	d, engine := newTestDispatcher(t)
	gen := &fakeGenerator{err: errors.New("dial tcp: timeout")}
	chat := NewChat(gen, "chat-model", 0.7, d, engine.List)
	before := engine.List()

	reply, err := chat.Send(context.Background(), "check in CM-002")
	if err == nil {
		t.Fatal("expected error")
	}
	if reply.Text != NetworkErrorReply {
		t.Errorf("expected network error reply, got %q", reply.Text)
	}
	if !reflect.DeepEqual(before, engine.List()) {
		t.Error("inventory changed after failed request")
	}
}

func TestImageGenerator(t *testing.T) {
	gen := &fakeGenerator{resp: responseWith(
		&genai.Part{Text: "here you go"},
		&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("png-bytes")}},
	)}
	images := NewImageGenerator(gen, "image-model")

	data, err := images.Generate(context.Background(), "Sandbag (20lb)")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("expected png-bytes, got %q", data)
	}
	if !strings.Contains(gen.calls[0].contents[0].Parts[0].Text, "Sandbag (20lb)") {
		t.Error("expected equipment name in prompt")
	}

	gen.resp = responseWith(&genai.Part{Text: "no picture today"})
	data, err = images.Generate(context.Background(), "Sandbag (20lb)")
	if err != nil {
		t.Fatalf("Generate without image: %v", err)
	}
	if data != nil {
		t.Errorf("expected no data, got %q", data)
	}

	gen.err = errors.New("quota exceeded")
	if _, err := images.Generate(context.Background(), "Sandbag (20lb)"); err == nil {
		t.Error("expected error")
	}
}

type fakeSession struct {
	mu        sync.Mutex
	audio     [][]byte
	responses []*genai.FunctionResponse
	gotAudio  chan struct{}
	messages  chan *genai.LiveServerMessage
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeSession(msgs ...*genai.LiveServerMessage) *fakeSession {
	s := &fakeSession{
		gotAudio: make(chan struct{}),
		messages: make(chan *genai.LiveServerMessage, len(msgs)),
		closed:   make(chan struct{}),
	}
	for _, m := range msgs {
		s.messages <- m
	}
	close(s.messages)
	return s
}

func (s *fakeSession) SendAudio(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = append(s.audio, pcm)
	if len(s.audio) == 1 {
		close(s.gotAudio)
	}
	return nil
}

func (s *fakeSession) SendToolResponses(responses []*genai.FunctionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
	return nil
}

// Receive replays the queued messages once the client has spoken, then
// reports the end of the session.
func (s *fakeSession) Receive() (*genai.LiveServerMessage, error) {
	select {
	case <-s.gotAudio:
	case <-s.closed:
		return nil, errors.New("session closed")
	}
	if m, ok := <-s.messages; ok {
		return m, nil
	}
	return nil, io.EOF
}

func (s *fakeSession) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

type fakeConnector struct {
	sess *fakeSession
	err  error
}

func (f fakeConnector) Connect(context.Context) (LiveSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sess, nil
}

type fakeConn struct {
	mu        sync.Mutex
	in        chan []byte
	out       [][]byte
	events    []VoiceEvent
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn(chunks ...[]byte) *fakeConn {
	c := &fakeConn{in: make(chan []byte, len(chunks)), closed: make(chan struct{})}
	for _, ch := range chunks {
		c.in <- ch
	}
	return c
}

func (c *fakeConn) ReadAudio() ([]byte, error) {
	select {
	case pcm := <-c.in:
		return pcm, nil
	case <-c.closed:
		return nil, io.EOF
	}
}

func (c *fakeConn) WriteAudio(pcm []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = append(c.out, pcm)
	return nil
}

func (c *fakeConn) WriteEvent(ev VoiceEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func TestVoiceRunDispatchesToolCalls(t *testing.T) {
	d, engine := newTestDispatcher(t)
	sess := newFakeSession(
		&genai.LiveServerMessage{ToolCall: &genai.LiveServerToolCall{
			FunctionCalls: []*genai.FunctionCall{{
				ID:   "call-1",
				Name: NameCheckInGear,
				Args: map[string]any{"serialNumber": "CM-002"},
			}},
		}},
		&genai.LiveServerMessage{ServerContent: &genai.LiveServerContent{
			ModelTurn:    &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "audio/pcm;rate=24000", Data: []byte{1, 2, 3, 4}}}}},
			TurnComplete: true,
		}},
	)
	conn := newFakeConn([]byte{9, 9})

	var seen []Result
	v := NewVoice(fakeConnector{sess: sess}, d, func(r Result) { seen = append(seen, r) })

	if err := v.Run(context.Background(), conn); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := engine.Get("2").Status; got != model.StatusAvailable {
		t.Errorf("expected Available, got %s", got)
	}
	if len(seen) != 1 || !seen[0].OK {
		t.Fatalf("expected one successful action, got %+v", seen)
	}

	if len(sess.responses) != 1 {
		t.Fatalf("expected 1 tool response, got %d", len(sess.responses))
	}
	resp := sess.responses[0]
	if resp.ID != "call-1" || resp.Name != NameCheckInGear {
		t.Errorf("unexpected tool response: %s %s", resp.ID, resp.Name)
	}
	if !reflect.DeepEqual(resp.Response, map[string]any{"result": "ok, action performed"}) {
		t.Errorf("unexpected response payload: %v", resp.Response)
	}

	if len(sess.audio) != 1 || !bytes.Equal(sess.audio[0], []byte{9, 9}) {
		t.Errorf("unexpected upstream audio: %v", sess.audio)
	}
	if len(conn.out) != 1 || !bytes.Equal(conn.out[0], []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected downstream audio: %v", conn.out)
	}

	if len(conn.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(conn.events))
	}
	if conn.events[0].Type != EventAction || conn.events[1].Type != EventTurnComplete {
		t.Errorf("unexpected events: %s, %s", conn.events[0].Type, conn.events[1].Type)
	}
}

func TestVoiceRunStopsOnCancel(t *testing.T) {
	d, _ := newTestDispatcher(t)
	sess := newFakeSession()
	conn := newFakeConn()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- NewVoice(fakeConnector{sess: sess}, d, nil).Run(ctx, conn) }()

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}

func TestVoiceRunConnectFailure(t *testing.T) {
	d, _ := newTestDispatcher(t)
	conn := newFakeConn()

	err := NewVoice(fakeConnector{err: errors.New("no key")}, d, nil).Run(context.Background(), conn)
	if err == nil {
		t.Fatal("expected connect error")
	}

	if _, readErr := conn.ReadAudio(); !errors.Is(readErr, io.EOF) {
		t.Errorf("expected connection to be closed, got %v", readErr)
	}
}
