package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCodeText(t *testing.T) {
	got := codeText("A1B2C3D4", 10*time.Minute)
	if !strings.Contains(got, "`A1B2C3D4`") {
		t.Errorf("reply %q does not quote the code", got)
	}
	if !strings.Contains(got, "10 минут") {
		t.Errorf("reply %q does not mention the TTL window", got)
	}
}

func TestIssueErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"профиль не найден", ErrProfileNotFound, "не найден"},
		{"коды кончились", ErrGenerationExhausted, "попробуйте ещё раз"},
		{"хранилище", errors.New("pq: connection refused"), "временно недоступен"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := issueErrorText(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("issueErrorText(%v) = %q, want substring %q", tt.err, got, tt.want)
			}
			// сырой текст ошибки не должен попадать в ответ пользователю
			if tt.err != ErrProfileNotFound && tt.err != ErrGenerationExhausted &&
				strings.Contains(got, tt.err.Error()) {
				t.Errorf("raw error leaked into user reply: %q", got)
			}
		})
	}
}
