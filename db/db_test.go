package db

import (
	"errors"
	"testing"
	"time"

	"finopschat/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestConversationLifecycle(t *testing.T) {
	database := openTestDB(t)

	conv, err := database.CreateConversation("alice", "Settlement fails analysis", "Settlement & Trade Operations")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("expected generated conversation id")
	}

	got, err := database.GetConversation("alice", conv.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != conv.Title || got.Category != conv.Category {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Ownership: another user cannot see it
	if _, err := database.GetConversation("bob", conv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}

	got.Title = "Renamed"
	got.IsBookmarked = true
	if err := database.SaveConversation(got); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	updated, err := database.GetConversation("alice", conv.ID)
	if err != nil {
		t.Fatalf("get after save failed: %v", err)
	}
	if updated.Title != "Renamed" || !updated.IsBookmarked {
		t.Fatalf("update not persisted: %+v", updated)
	}
	if !updated.UpdatedAt.After(conv.CreatedAt) && !updated.UpdatedAt.Equal(conv.CreatedAt) {
		t.Fatalf("UpdatedAt should move forward: %v vs %v", updated.UpdatedAt, conv.CreatedAt)
	}

	if err := database.DeleteConversation("alice", conv.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := database.GetConversation("alice", conv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListConversations_NewestFirst(t *testing.T) {
	database := openTestDB(t)

	first, err := database.CreateConversation("alice", "First", "General Query")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := database.CreateConversation("alice", "Second", "General Query")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := database.ListConversations("alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %q then %q", list[0].Title, list[1].Title)
	}

	other, err := database.ListConversations("bob")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no conversations for other user, got %d", len(other))
	}
}

func TestMessages_AppendOrderAndLookup(t *testing.T) {
	database := openTestDB(t)

	conv, err := database.CreateConversation("alice", "Chat", "General Query")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	userMsg, err := database.AppendMessage(conv.ID, "user", "settlement fails?", false, false, nil)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	aiMsg, err := database.AppendMessage(conv.ID, "assistant", "3 fails totaling $2.4M", false, false, &models.MessageData{
		Results: &models.ResultSet{Columns: []string{"n"}, Rows: []map[string]interface{}{{"n": 3.0}}},
		Plan:    &models.QueryPlan{Category: "Settlement & Trade Operations", SQL: "SELECT 3 AS n"},
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	messages, err := database.GetMessages(conv.ID)
	if err != nil {
		t.Fatalf("get messages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ID != userMsg.ID || messages[1].ID != aiMsg.ID {
		t.Fatal("messages out of chronological order")
	}

	byID, err := database.GetMessage(aiMsg.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if byID.Content != aiMsg.Content || byID.Data == nil || byID.Data.Plan == nil {
		t.Fatalf("message payload lost on round trip: %+v", byID)
	}

	if _, err := database.GetMessage("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMessageFeedback(t *testing.T) {
	database := openTestDB(t)

	conv, _ := database.CreateConversation("alice", "Chat", "General Query")
	msg, err := database.AppendMessage(conv.ID, "assistant", "answer", false, false, nil)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	up := "up"
	updated, err := database.UpdateMessageFeedback(msg.ID, &up)
	if err != nil {
		t.Fatalf("feedback update failed: %v", err)
	}
	if updated.Feedback == nil || *updated.Feedback != "up" {
		t.Fatalf("feedback not set: %+v", updated.Feedback)
	}

	cleared, err := database.UpdateMessageFeedback(msg.ID, nil)
	if err != nil {
		t.Fatalf("feedback clear failed: %v", err)
	}
	if cleared.Feedback != nil {
		t.Fatalf("feedback not cleared: %+v", cleared.Feedback)
	}

	persisted, err := database.GetMessage(msg.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if persisted.Feedback != nil {
		t.Fatal("cleared feedback should persist")
	}
}

func TestLatestRetainedPayload(t *testing.T) {
	database := openTestDB(t)

	conv, _ := database.CreateConversation("alice", "Chat", "NAV Operations")

	// No messages yet
	payload, err := database.LatestRetainedPayload(conv.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if payload != nil {
		t.Fatalf("expected nil payload, got %+v", payload)
	}

	database.AppendMessage(conv.ID, "user", "nav adjustments", false, false, nil)
	time.Sleep(time.Millisecond)
	database.AppendMessage(conv.ID, "assistant", "first answer", false, false, &models.MessageData{
		Results: &models.ResultSet{Columns: []string{"v"}, Rows: []map[string]interface{}{{"v": 1.0}}},
		Plan:    &models.QueryPlan{Category: "NAV Operations", SQL: "SELECT 1 AS v"},
	})
	time.Sleep(time.Millisecond)
	database.AppendMessage(conv.ID, "assistant", "second answer", false, false, &models.MessageData{
		Results: &models.ResultSet{Columns: []string{"v"}, Rows: []map[string]interface{}{{"v": 2.0}}},
		Plan:    &models.QueryPlan{Category: "NAV Operations", SQL: "SELECT 2 AS v"},
	})
	time.Sleep(time.Millisecond)
	// Drill-down answers carry no retained payload and must be skipped
	database.AppendMessage(conv.ID, "assistant", "table view", true, false, &models.MessageData{
		Table: &models.TableData{Headers: []string{"v"}, Rows: [][]interface{}{{2.0}}},
	})

	payload, err = database.LatestRetainedPayload(conv.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if payload == nil || payload.Plan == nil {
		t.Fatal("expected a retained payload")
	}
	if payload.Plan.SQL != "SELECT 2 AS v" {
		t.Fatalf("expected the most recent retained payload, got %q", payload.Plan.SQL)
	}
}
