package form

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"cofre/internal/shared/apperr"
)

type Field struct {
	Name  string
	Rules []Rule
}

// ServerMapper turns a failed submission into field errors. Fields not in
// the schema are dropped by the caller.
type ServerMapper func(err *apperr.Error) map[string]string

// Schema is an ordered set of fields. Rules of a field run in order and the
// first failing one provides the message.
type Schema struct {
	Name   string
	Fields []Field
	Server ServerMapper
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) Has(name string) bool {
	_, ok := s.field(name)
	return ok
}

// ValidateField returns the error of one field, "" when valid or unknown.
func (s Schema) ValidateField(name string, values Values) string {
	f, ok := s.field(name)
	if !ok {
		return ""
	}
	v := values[name]
	for _, r := range f.Rules {
		if !r.Check(v, values) {
			return r.Message()
		}
	}
	return ""
}

// Validate returns the errors of every invalid field.
func (s Schema) Validate(values Values) map[string]string {
	errs := make(map[string]string)
	for _, f := range s.Fields {
		if msg := s.ValidateField(f.Name, values); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// FieldErrors distributes a 400/422 field map onto the form.
func FieldErrors(err *apperr.Error) map[string]string {
	if err.Kind != apperr.KindBusinessRule || len(err.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(err.Fields))
	for k, v := range err.Fields {
		out[k] = v
	}
	return out
}

const InvalidCredentials = "E-mail ou senha inválidos"

func loginErrors(err *apperr.Error) map[string]string {
	if err.Kind == apperr.KindAuth {
		return map[string]string{"password": InvalidCredentials}
	}
	return FieldErrors(err)
}

const EmailTaken = "Este e-mail já está cadastrado"

func registerErrors(err *apperr.Error) map[string]string {
	if err.Kind == apperr.KindConflict {
		msg := err.ServerMessage
		if msg == "" {
			msg = EmailTaken
		}
		return map[string]string{"email": msg}
	}
	return FieldErrors(err)
}

func profileErrors(err *apperr.Error) map[string]string {
	if msg := err.ServerMessage; strings.Contains(strings.ToLower(msg), "senha") {
		return map[string]string{"currentPassword": msg}
	}
	return FieldErrors(err)
}

// ServerFields maps a failed submission onto the schema's fields. Validation
// errors raised by the submit function keep their own field map; other
// kinds go through the schema's ServerMapper, FieldErrors by default.
func (s Schema) ServerFields(err error) map[string]string {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return nil
	}
	var fields map[string]string
	if e.Kind == apperr.KindValidation {
		fields = make(map[string]string, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = v
		}
	} else {
		mapper := s.Server
		if mapper == nil {
			mapper = FieldErrors
		}
		fields = mapper(e)
	}
	for k := range fields {
		if !s.Has(k) {
			delete(fields, k)
		}
	}
	return fields
}

var minTransactionAmount = decimal.RequireFromString("0.01")

var (
	emailRequired = Required{Msg: "E-mail é obrigatório"}
	emailValid    = Email{Msg: "E-mail inválido"}
	colorMax      = MaxLength{N: 30, Msg: "Cor deve ter no máximo 30 caracteres"}
)

var Login = Schema{
	Name: "login",
	Fields: []Field{
		{Name: "email", Rules: []Rule{emailRequired, emailValid}},
		{Name: "password", Rules: []Rule{Required{Msg: "Senha é obrigatória"}}},
	},
	Server: loginErrors,
}

var Register = Schema{
	Name: "register",
	Fields: []Field{
		{Name: "name", Rules: []Rule{
			Required{Msg: "Nome é obrigatório"},
			MaxLength{N: 100, Msg: "Nome deve ter no máximo 100 caracteres"},
		}},
		{Name: "email", Rules: []Rule{
			Required{Msg: "Email é obrigatório"},
			Email{Msg: "Email deve ser válido"},
			MaxLength{N: 150, Msg: "Email deve ter no máximo 150 caracteres"},
		}},
		{Name: "password", Rules: []Rule{
			Required{Msg: "Senha é obrigatória"},
			MinLength{N: 6, Msg: "Senha deve ter entre 6 e 255 caracteres"},
			MaxLength{N: 255, Msg: "Senha deve ter entre 6 e 255 caracteres"},
		}},
	},
	Server: registerErrors,
}

var ForgotPassword = Schema{
	Name: "forgot-password",
	Fields: []Field{
		{Name: "email", Rules: []Rule{emailRequired, emailValid}},
	},
}

var ResetPassword = Schema{
	Name: "reset-password",
	Fields: []Field{
		{Name: "email", Rules: []Rule{emailRequired, emailValid}},
		{Name: "code", Rules: []Rule{
			Required{Msg: "Código é obrigatório"},
			ExactLength{N: 6, Msg: "Código deve ter 6 caracteres"},
		}},
		{Name: "newPassword", Rules: []Rule{
			Required{Msg: "Nova senha é obrigatória"},
			MinLength{N: 8, Msg: "Senha deve ter no mínimo 8 caracteres"},
		}},
	},
}

var Account = Schema{
	Name: "account",
	Fields: []Field{
		{Name: "name", Rules: []Rule{
			Required{Msg: "Campo obrigatório"},
			MaxLength{N: 100, Msg: "Nome deve ter no máximo 100 caracteres"},
		}},
		{Name: "initialBalance", Rules: []Rule{
			Required{Msg: "Campo obrigatório"},
			Number{Msg: "Valor inválido"},
		}},
		{Name: "type", Rules: []Rule{
			OneOf{Options: []string{"CHECKING", "INVESTMENT", "CASH"}, Msg: "Campo obrigatório"},
		}},
		{Name: "color", Rules: []Rule{colorMax}},
	},
}

var Transaction = Schema{
	Name: "transaction",
	Fields: []Field{
		{Name: "amount", Rules: []Rule{Range{Min: &minTransactionAmount, Msg: "Valor inválido"}}},
		{Name: "name", Rules: []Rule{
			Required{Msg: "Nome é obrigatório"},
			MaxLength{N: 150, Msg: "Nome deve ter no máximo 150 caracteres"},
		}},
		{Name: "categoryId", Rules: []Rule{
			Required{Msg: "Categoria é obrigatória"},
			UUID{Msg: "Categoria inválida"},
		}},
		{Name: "bankAccountId", Rules: []Rule{
			Required{Msg: "Conta é obrigatória"},
			UUID{Msg: "Conta inválida"},
		}},
		{Name: "date", Rules: []Rule{
			Required{Msg: "Data é obrigatória"},
			Date{Msg: "Data inválida"},
		}},
		{Name: "type", Rules: []Rule{
			OneOf{Options: []string{"INCOME", "EXPENSE"}, Msg: "Tipo da transação é obrigatório"},
		}},
	},
}

var Goal = Schema{
	Name: "goal",
	Fields: []Field{
		{Name: "name", Rules: []Rule{
			Required{Msg: "Nome é obrigatório"},
			MaxLength{N: 120, Msg: "Nome deve ter no máximo 120 caracteres"},
		}},
		{Name: "targetAmount", Rules: []Rule{Positive{Msg: "Valor objetivo deve ser maior que zero"}}},
		{Name: "color", Rules: []Rule{colorMax}},
	},
}

var GoalInteraction = Schema{
	Name: "goal-interaction",
	Fields: []Field{
		{Name: "goalId", Rules: []Rule{Required{Msg: "Selecione uma meta"}}},
		{Name: "amount", Rules: []Rule{Positive{Msg: "Valor deve ser maior que zero"}}},
		{Name: "bankAccountId", Rules: []Rule{Required{Msg: "Selecione uma conta"}}},
	},
}

func changingPassword(all Values) bool {
	return strings.TrimSpace(all["newPassword"]) != ""
}

var Profile = Schema{
	Name: "profile",
	Fields: []Field{
		{Name: "name", Rules: []Rule{
			Required{Msg: "Campo obrigatório"},
			MinLength{N: 3, Msg: "Nome deve ter no mínimo 3 caracteres"},
			MaxLength{N: 100, Msg: "Nome deve ter no máximo 100 caracteres"},
		}},
		{Name: "currentPassword", Rules: []Rule{CrossField{
			Fn:  func(v string, all Values) bool { return !changingPassword(all) || v != "" },
			Msg: "Senha atual é obrigatória para alterar",
		}}},
		{Name: "newPassword", Rules: []Rule{CrossField{
			Fn:  func(v string, all Values) bool { return !changingPassword(all) || len([]rune(v)) >= 8 },
			Msg: "Nova senha deve ter no mínimo 8 caracteres",
		}}},
		{Name: "confirmPassword", Rules: []Rule{CrossField{
			Fn:  func(v string, all Values) bool { return !changingPassword(all) || v == all["newPassword"] },
			Msg: "As senhas não coincidem",
		}}},
	},
	Server: profileErrors,
}
