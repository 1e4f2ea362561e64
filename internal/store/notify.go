// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/nodectl/internal/log"
)

// Notification actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Notification is a server push message about one record. For create and
// update Data is the record. For delete it is the primary key, bare or
// inside an object.
type Notification struct {
	Name   string          `json:"name" yaml:"name"`
	Action string          `json:"action" yaml:"action"`
	Data   json.RawMessage `json:"data" yaml:"data"`
}

// Apply folds a notification into the store. Notifications for another
// kind are ignored.
func (s *Store) Apply(n Notification) error {
	if !s.handles(n.Name) {
		log.Debugf("ignoring notification: name=%s, action=%s", n.Name, n.Action)
		return nil
	}

	data := gjson.ParseBytes(n.Data)

	switch n.Action {
	case ActionCreate:
		return s.createNotify(data)
	case ActionUpdate:
		return s.updateNotify(data)
	case ActionDelete:
		return s.deleteNotify(data)
	default:
		return fmt.Errorf("unknown notification action %q", n.Action)
	}
}

// createNotify appends a record, or replaces it when the server announces a
// record it already sent.
func (s *Store) createNotify(record gjson.Result) error {
	id, err := s.primaryKey(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items[i] = record
	} else {
		s.items = append(s.items, record)
	}
	s.bump()
	return nil
}

// updateNotify replaces every record with the same primary key.
func (s *Store) updateNotify(record gjson.Result) error {
	id, err := s.primaryKey(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.accessor.PrimaryKey(s.items[i]) == id {
			s.items[i] = record
		}
	}
	s.bump()
	return nil
}

// deleteNotify removes a record and drops it from the selection. Unknown
// keys are ignored.
func (s *Store) deleteNotify(data gjson.Result) error {
	id := data.String()
	if data.IsObject() {
		var err error
		if id, err = s.primaryKey(data); err != nil {
			return err
		}
	}
	if id == "" {
		return errors.New("delete notification without a primary key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	} else {
		log.Debugf("delete for unknown record: id=%s", id)
	}
	s.selected = slices.DeleteFunc(s.selected, func(selected string) bool {
		return selected == id
	})
	if s.active == id {
		s.active = ""
	}
	s.bump()
	return nil
}

func (s *Store) primaryKey(record gjson.Result) (string, error) {
	if !record.IsObject() {
		return "", fmt.Errorf("notification data is not a %s record", s.kind.Name)
	}
	id := s.accessor.PrimaryKey(record)
	if id == "" {
		return "", fmt.Errorf("%s record without %s", s.kind.Name, s.kind.PrimaryKey)
	}
	return id, nil
}

// handles reports whether a notification name refers to the store's kind.
// An empty name is accepted.
func (s *Store) handles(name string) bool {
	if name == "" || strings.EqualFold(name, s.kind.Name) {
		return true
	}
	return slices.ContainsFunc(s.kind.Aliases, func(alias string) bool {
		return strings.EqualFold(alias, name)
	})
}

// ReadNotifications decodes a stream of JSON notifications, one after the
// other, and hands each to fn. It stops at the first error.
func ReadNotifications(r io.Reader, fn func(Notification) error) error {
	dec := json.NewDecoder(r)
	for count := 1; ; count++ {
		var n Notification
		err := dec.Decode(&n)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to decode notification %d: %w", count, err)
		}
		if err := fn(n); err != nil {
			return fmt.Errorf("notification %d: %w", count, err)
		}
	}
}
