package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"finopschat/models"
)

// ErrNotFound is returned when a conversation or message does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps the badger store holding conversations and messages.
//
// Key layout:
//
//	conv:<userID>:<convID>   conversation record
//	msg:<convID>:<seq>       message record, seq is zero-padded UnixNano
//	msgref:<msgID>           full msg key, for lookups by message id
type DB struct {
	badgerDB *badger.DB
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{badgerDB: badgerDB}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

func convKey(userID, convID string) []byte {
	return []byte(fmt.Sprintf("conv:%s:%s", userID, convID))
}

func msgKey(convID string, seq int64) []byte {
	return []byte(fmt.Sprintf("msg:%s:%020d", convID, seq))
}

func msgRefKey(msgID string) []byte {
	return []byte(fmt.Sprintf("msgref:%s", msgID))
}

// CreateConversation stores a new conversation for the user and returns it.
func (d *DB) CreateConversation(userID, title, category string) (*models.Conversation, error) {
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(conv)
	if err != nil {
		return nil, err
	}

	err = d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(convKey(userID, conv.ID), data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store conversation: %w", err)
	}
	return conv, nil
}

// GetConversation fetches one conversation owned by the user.
func (d *DB) GetConversation(userID, convID string) (*models.Conversation, error) {
	var conv models.Conversation

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(convKey(userID, convID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conv)
		})
	})
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns all conversations for the user, newest first.
func (d *DB) ListConversations(userID string) ([]models.Conversation, error) {
	conversations := []models.Conversation{}

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(fmt.Sprintf("conv:%s:", userID))
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var conv models.Conversation
				if err := json.Unmarshal(val, &conv); err != nil {
					return err
				}
				conversations = append(conversations, conv)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest activity first
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	return conversations, nil
}

// SaveConversation writes back a modified conversation, bumping UpdatedAt.
func (d *DB) SaveConversation(conv *models.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(convKey(conv.UserID, conv.ID), data)
	})
}

// DeleteConversation removes a conversation and all of its messages.
func (d *DB) DeleteConversation(userID, convID string) error {
	if _, err := d.GetConversation(userID, convID); err != nil {
		return err
	}

	return d.badgerDB.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(fmt.Sprintf("msg:%s:", convID))
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)

		var msgKeys [][]byte
		var refKeys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			msgKeys = append(msgKeys, item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				var msg models.ChatMessage
				if err := json.Unmarshal(val, &msg); err != nil {
					return err
				}
				refKeys = append(refKeys, msgRefKey(msg.ID))
				return nil
			})
			if err != nil {
				it.Close()
				return err
			}
		}
		it.Close()

		for _, k := range msgKeys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for _, k := range refKeys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(convKey(userID, convID))
	})
}

// AppendMessage stores a message at the end of the conversation and returns it.
func (d *DB) AppendMessage(convID, role, content string, hasTable, hasChart bool, data *models.MessageData) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:             uuid.New().String(),
		ConversationID: convID,
		Role:           role,
		Content:        content,
		HasTable:       hasTable,
		HasChart:       hasChart,
		Data:           data,
		CreatedAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	key := msgKey(convID, msg.CreatedAt.UnixNano())
	err = d.badgerDB.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, payload); err != nil {
			return err
		}
		return txn.Set(msgRefKey(msg.ID), key)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return msg, nil
}

// GetMessages returns a conversation's messages in chronological order.
func (d *DB) GetMessages(convID string) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(fmt.Sprintf("msg:%s:", convID))
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var msg models.ChatMessage
				if err := json.Unmarshal(val, &msg); err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessage looks up a single message by its id.
func (d *DB) GetMessage(msgID string) (*models.ChatMessage, error) {
	var msg models.ChatMessage

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		ref, err := txn.Get(msgRefKey(msgID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		var key []byte
		if err := ref.Value(func(val []byte) error {
			key = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}

		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &msg)
		})
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateMessageFeedback sets or clears the feedback flag on a message.
// feedback must be "up", "down" or nil.
func (d *DB) UpdateMessageFeedback(msgID string, feedback *string) (*models.ChatMessage, error) {
	msg, err := d.GetMessage(msgID)
	if err != nil {
		return nil, err
	}
	msg.Feedback = feedback

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	key := msgKey(msg.ConversationID, msg.CreatedAt.UnixNano())
	err = d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return msg, nil
}

// LatestRetainedPayload walks a conversation backwards and returns the data
// payload of the most recent assistant message that still carries SQL results.
// Returns nil when no such message exists.
func (d *DB) LatestRetainedPayload(convID string) (*models.MessageData, error) {
	messages, err := d.GetMessages(convID)
	if err != nil {
		return nil, err
	}
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if !strings.EqualFold(m.Role, "assistant") {
			continue
		}
		if m.Data != nil && m.Data.Results != nil && m.Data.Plan != nil {
			return m.Data, nil
		}
	}
	return nil, nil
}
