package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/loggpt/components-room/internal/ai"
	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/lending"
	"github.com/loggpt/components-room/internal/models"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
	last  []ai.Message
}

func (f *fakeProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	f.calls++
	f.last = messages
	return f.reply, f.err
}

var testDBSeq int

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:chat_test_%d?mode=memory&cache=shared", testDBSeq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &inventory.Component{}, &lending.Transaction{}, &Conversation{}, &Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedInventory(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	comps := []*inventory.Component{
		{Name: "Arduino Uno", Category: inventory.CategoryMicrocontroller, TotalQuantity: 10, AvailableQuantity: 5, Status: inventory.StatusAvailable, Location: "Shelf A-2"},
		{Name: "DHT22", Category: inventory.CategorySensor, TotalQuantity: 8, AvailableQuantity: 8, Status: inventory.StatusAvailable, Location: "Bin C-3"},
	}
	for _, c := range comps {
		if err := gdb.Create(c).Error; err != nil {
			t.Fatalf("seed component: %v", err)
		}
	}
}

func TestSendWithProvider(t *testing.T) {
	gdb := openTestDB(t)
	seedInventory(t, gdb)
	provider := &fakeProvider{reply: "The Arduino Uno is on Shelf A-2."}
	svc := NewService(gdb, NewRepo(gdb), provider, 6)
	ctx := context.Background()

	res, err := svc.Send(ctx, nil, "", "where is the arduino?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Message != provider.reply {
		t.Fatalf("message = %q", res.Message)
	}
	if res.ConversationID == "" {
		t.Fatal("conversation id not assigned")
	}
	if len(res.Suggestions) == 0 {
		t.Fatal("no suggestions")
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d", provider.calls)
	}
	if provider.last[0].Role != ai.RoleSystem || !strings.Contains(provider.last[0].Content, "Arduino Uno") {
		t.Fatal("system prompt missing inventory context")
	}

	var msgs []Message
	if err := gdb.Where("conversation_id = ?", res.ConversationID).Order("id ASC").Find(&msgs).Error; err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != ai.RoleUser || msgs[1].Role != ai.RoleAssistant {
		t.Fatalf("persisted messages = %+v", msgs)
	}
}

func TestSendFallsBackOnProviderError(t *testing.T) {
	gdb := openTestDB(t)
	seedInventory(t, gdb)
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	svc := NewService(gdb, NewRepo(gdb), provider, 6)

	res, err := svc.Send(context.Background(), nil, "", "where is the arduino?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(res.Message, "Arduino Uno") || !strings.Contains(res.Message, "Shelf A-2") {
		t.Fatalf("fallback answer incomplete:\n%s", res.Message)
	}
}

func TestSendWithoutProvider(t *testing.T) {
	gdb := openTestDB(t)
	seedInventory(t, gdb)
	svc := NewService(gdb, NewRepo(gdb), nil, 6)

	res, err := svc.Send(context.Background(), nil, "", "what sensors are available?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(res.Message, "DHT22") {
		t.Fatalf("fallback answer missing sensor:\n%s", res.Message)
	}
}

func TestSendContinuesConversation(t *testing.T) {
	gdb := openTestDB(t)
	seedInventory(t, gdb)
	provider := &fakeProvider{reply: "ok"}
	svc := NewService(gdb, NewRepo(gdb), provider, 6)
	ctx := context.Background()

	first, err := svc.Send(ctx, nil, "", "where is the arduino?")
	if err != nil {
		t.Fatalf("first send: %v", err)
	}
	second, err := svc.Send(ctx, nil, first.ConversationID, "and the dht22?")
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatalf("conversation ids differ: %q vs %q", first.ConversationID, second.ConversationID)
	}

	// Second call carries the first exchange as history.
	var sawHistory bool
	for _, m := range provider.last {
		if m.Role == ai.RoleAssistant && m.Content == "ok" {
			sawHistory = true
		}
	}
	if !sawHistory {
		t.Fatal("history not passed to provider")
	}

	var n int64
	gdb.Model(&Message{}).Where("conversation_id = ?", first.ConversationID).Count(&n)
	if n != 4 {
		t.Fatalf("messages = %d, want 4", n)
	}
}

func TestConversationTitleTruncated(t *testing.T) {
	gdb := openTestDB(t)
	seedInventory(t, gdb)
	svc := NewService(gdb, NewRepo(gdb), nil, 6)

	long := strings.Repeat("a", 80)
	res, err := svc.Send(context.Background(), nil, "", long)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	var conv Conversation
	if err := gdb.Where("conversation_id = ?", res.ConversationID).First(&conv).Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if conv.Title != strings.Repeat("a", 50)+"..." {
		t.Fatalf("title = %q", conv.Title)
	}
}

func TestConversationOwnership(t *testing.T) {
	gdb := openTestDB(t)
	seedInventory(t, gdb)
	svc := NewService(gdb, NewRepo(gdb), nil, 6)
	ctx := context.Background()

	alice := uint64(1)
	bob := uint64(2)

	res, err := svc.Send(ctx, &alice, "", "where is the arduino?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.GetConversation(ctx, res.ConversationID, &bob); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("cross-user get err = %v, want ErrConversationNotFound", err)
	}
	if err := svc.DeleteConversation(ctx, res.ConversationID, &bob); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("cross-user delete err = %v, want ErrConversationNotFound", err)
	}

	detail, err := svc.GetConversation(ctx, res.ConversationID, &alice)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if len(detail.Messages) != 2 {
		t.Fatalf("messages = %d", len(detail.Messages))
	}

	summaries, err := svc.HistorySummaries(ctx, &alice)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(summaries) != 1 || summaries[0].MessageCount != 2 {
		t.Fatalf("summaries = %+v", summaries)
	}

	if err := svc.DeleteConversation(ctx, res.ConversationID, &alice); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	var n int64
	gdb.Model(&Message{}).Where("conversation_id = ?", res.ConversationID).Count(&n)
	if n != 0 {
		t.Fatalf("messages left after delete: %d", n)
	}
}

func TestClearHistory(t *testing.T) {
	gdb := openTestDB(t)
	seedInventory(t, gdb)
	svc := NewService(gdb, NewRepo(gdb), nil, 6)
	ctx := context.Background()

	alice := uint64(1)
	if _, err := svc.Send(ctx, &alice, "", "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, &alice, "", "second"); err != nil {
		t.Fatalf("send: %v", err)
	}
	// Anonymous conversation survives the clear.
	anon, err := svc.Send(ctx, nil, "", "kiosk question")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.ClearHistory(ctx, &alice); err != nil {
		t.Fatalf("clear: %v", err)
	}

	summaries, err := svc.HistorySummaries(ctx, &alice)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("summaries after clear = %d", len(summaries))
	}

	var n int64
	gdb.Model(&Conversation{}).Where("conversation_id = ?", anon.ConversationID).Count(&n)
	if n != 1 {
		t.Fatal("anonymous conversation was removed")
	}
}
