package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFromResponse_Classification(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
		is     error
	}{
		{401, KindAuth, ErrAuth},
		{409, KindConflict, ErrConflict},
		{400, KindBusinessRule, ErrBusinessRule},
		{422, KindBusinessRule, ErrBusinessRule},
		{403, KindUnknown, ErrUnknown},
		{404, KindUnknown, ErrUnknown},
		{500, KindUnknown, ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := FromResponse("GET /x", tt.status, nil)
			if err.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", err.Kind, tt.want)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("errors.Is(%v) = false", tt.is)
			}
		})
	}
}

func TestFromResponse_FieldMap(t *testing.T) {
	body := []byte(`{"status":400,"message":"Erro de validação","errors":{"email":"E-mail inválido","name":"Nome é obrigatório"}}`)

	err := FromResponse("POST /users", 400, body)

	if err.Field("email") != "E-mail inválido" {
		t.Errorf("Field(email) = %q", err.Field("email"))
	}
	if err.Field("name") != "Nome é obrigatório" {
		t.Errorf("Field(name) = %q", err.Field("name"))
	}
	if err.ServerMessage != "Erro de validação" {
		t.Errorf("ServerMessage = %q", err.ServerMessage)
	}
}

func TestFromResponse_NonJSONBody(t *testing.T) {
	err := FromResponse("GET /accounts", 502, []byte("<html>bad gateway</html>"))
	if err.ServerMessage != "" {
		t.Errorf("ServerMessage = %q, want empty", err.ServerMessage)
	}
	if Message(err, "") != DefaultMessage {
		t.Errorf("Message() = %q, want default", Message(err, ""))
	}
}

func TestNetwork_Timeout(t *testing.T) {
	err := Network("GET /dashboard", fmt.Errorf("do: %w", context.DeadlineExceeded))
	if !err.Timeout {
		t.Error("Timeout = false, want true")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("errors.Is(ErrNetwork) = false")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("wrapped cause lost")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name: "override by prefix",
			err:  &Error{Kind: KindUnknown, Status: 404, ServerMessage: "Conta bancária não encontrada com id 42"},
			want: "Conta não encontrada.",
		},
		{
			name: "insufficient balance override",
			err:  &Error{Kind: KindBusinessRule, Status: 400, ServerMessage: "Saldo insuficiente na conta de origem"},
			want: "Saldo insuficiente.",
		},
		{
			name: "plain server message passes through",
			err:  &Error{Kind: KindBusinessRule, Status: 400, ServerMessage: "A meta já foi concluída"},
			want: "A meta já foi concluída",
		},
		{
			name: "technical message falls back to status table",
			err:  &Error{Kind: KindUnknown, Status: 500, ServerMessage: "Internal Server Error"},
			want: "Falha ao conectar com o servidor. Tente mais tarde.",
		},
		{
			name: "status code prefix is technical",
			err:  &Error{Kind: KindUnknown, Status: 403, ServerMessage: "403 FORBIDDEN"},
			want: "Você não tem permissão para esta ação.",
		},
		{
			name: "conflict without message",
			err:  &Error{Kind: KindConflict, Status: 409},
			want: "Este registro já existe.",
		},
		{
			name: "network",
			err:  Network("GET /goals", errors.New("connection refused")),
			want: "Falha ao conectar com o servidor.",
		},
		{
			name: "timeout",
			err:  Network("GET /goals", context.DeadlineExceeded),
			want: "Tempo limite excedido. Tente novamente.",
		},
		{
			name:     "unknown status uses fallback",
			err:      &Error{Kind: KindUnknown, Status: 418},
			fallback: "Erro ao salvar transação.",
			want:     "Erro ao salvar transação.",
		},
		{
			name: "foreign error uses default",
			err:  errors.New("boom"),
			want: DefaultMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err, tt.fallback); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create goal: %w", FromResponse("POST /goals", 409, nil))
	if KindOf(wrapped) != KindConflict {
		t.Errorf("KindOf() = %q, want conflict", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("KindOf(plain) should be unknown")
	}
	if !IsUnauthorized(fmt.Errorf("x: %w", FromResponse("GET /me", 401, nil))) {
		t.Error("IsUnauthorized() = false for wrapped 401")
	}
}
