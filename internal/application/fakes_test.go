package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/pkg/events"
	"github.com/oksasatya/go-recipe-api/pkg/helpers"
)

func init() {
	helpers.PasswordCost = 4
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.IngredientEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if evt, ok := body.(events.IngredientEvent); ok {
		p.events = append(p.events, evt)
	}
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeUploader struct {
	path        string
	contentType string
	body        []byte
	err         error
}

func (u *fakeUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	u.path, u.contentType, u.body = objectPath, contentType, buf.Bytes()
	return "https://storage.example.com/" + objectPath, nil
}

type stubSearcher struct {
	gotUser string
	gotQ    string
	gotSize int
	result  []entity.Ingredient
}

func (s *stubSearcher) Search(_ context.Context, userID, q string, size int) ([]entity.Ingredient, error) {
	s.gotUser, s.gotQ, s.gotSize = userID, q, size
	return s.result, nil
}

var errBroker = errors.New("broker down")
