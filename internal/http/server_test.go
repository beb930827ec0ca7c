package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gustavotrrsenac/datefy/internal/config"
	"github.com/gustavotrrsenac/datefy/internal/storage"
)

type ServerTestSuite struct {
	suite.Suite
	repo *storage.SQLiteRepository
	ts   *httptest.Server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	repo, err := storage.NewSQLiteRepository(filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.repo = repo

	cfg := &config.Config{
		Port:       "8080",
		SessionTTL: time.Hour,
	}
	srv := NewServer(cfg, repo, nil)
	s.ts = httptest.NewServer(srv.Handler)
}

func (s *ServerTestSuite) TearDownTest() {
	s.ts.Close()
	s.Require().NoError(s.repo.Close())
}

// newClient returns a cookie-carrying client that does not follow
// redirects, so handlers' status codes and Location headers stay visible.
func (s *ServerTestSuite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *ServerTestSuite) postForm(c *http.Client, path string, form url.Values) *http.Response {
	resp, err := c.Post(s.ts.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	s.Require().NoError(err)
	return resp
}

func (s *ServerTestSuite) get(c *http.Client, path string) *http.Response {
	resp, err := c.Get(s.ts.URL + path)
	s.Require().NoError(err)
	return resp
}

// signupAndLogin creates an account and returns a logged-in client.
func (s *ServerTestSuite) signupAndLogin(nome, email, senha string) *http.Client {
	c := s.newClient()

	resp := s.postForm(c, "/criar-conta", url.Values{
		"nome":            {nome},
		"email":           {email},
		"senha":           {senha},
		"confirmar_senha": {senha},
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Require().Equal("/login", resp.Header.Get("Location"))

	resp = s.postForm(c, "/login", url.Values{"email": {email}, "senha": {senha}})
	resp.Body.Close()
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Require().Equal("/dashboard", resp.Header.Get("Location"))
	return c
}

func decodeJSON[T any](s *ServerTestSuite, resp *http.Response) T {
	defer resp.Body.Close()
	var v T
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (s *ServerTestSuite) TestAnonymousRedirectsToLogin() {
	c := s.newClient()
	for _, path := range []string{"/", "/dashboard", "/vida-pessoal", "/financas", "/perfil"} {
		resp := s.get(c, path)
		resp.Body.Close()
		s.Equal(http.StatusSeeOther, resp.StatusCode, path)
		s.Equal("/login", resp.Header.Get("Location"), path)
	}
}

func (s *ServerTestSuite) TestAnonymousJSONGets401() {
	c := s.newClient()
	for _, path := range []string{"/api/tarefas", "/financas/data", "/api/lembretes"} {
		resp := s.get(c, path)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
		body := decodeJSON[map[string]string](s, resp)
		s.Equal("unauthorized", body["error"], path)
	}
}

func (s *ServerTestSuite) TestHealthEndpoints() {
	c := s.newClient()
	for _, path := range []string{"/healthz", "/readyz"} {
		resp := s.get(c, path)
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode, path)
	}
}

func (s *ServerTestSuite) TestSignupLoginLogout() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	resp := s.get(c, "/dashboard")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "Ana")

	resp = s.get(c, "/logout")
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	resp = s.get(c, "/dashboard")
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/login", resp.Header.Get("Location"))
}

func (s *ServerTestSuite) TestLoginRejectsWrongPassword() {
	s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	c := s.newClient()
	resp := s.postForm(c, "/login", url.Values{"email": {"ana@example.com"}, "senha": {"errada"}})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// Unknown account gets the identical status.
	resp = s.postForm(c, "/login", url.Values{"email": {"nao@existe.com"}, "senha": {"x"}})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ServerTestSuite) TestSignupDuplicateEmail() {
	s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	c := s.newClient()
	resp := s.postForm(c, "/criar-conta", url.Values{
		"nome":            {"Outra Ana"},
		"email":           {"ana@example.com"},
		"senha":           {"outrasenha"},
		"confirmar_senha": {"outrasenha"},
	})
	resp.Body.Close()
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *ServerTestSuite) TestTarefaLifecycleAndFeed() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	resp := s.postForm(c, "/salvar-tarefa", url.Values{
		"titulo": {"Dentista"},
		"data":   {"2026-09-01"},
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/vida-pessoal", resp.Header.Get("Location"))

	type evento struct {
		Title  string `json:"title"`
		Start  string `json:"start"`
		AllDay bool   `json:"allDay"`
		Color  string `json:"color"`
	}
	eventos := decodeJSON[[]evento](s, s.get(c, "/api/tarefas"))
	s.Require().Len(eventos, 1)
	s.Equal("Dentista", eventos[0].Title)
	s.Equal("2026-09-01", eventos[0].Start)
	s.True(eventos[0].AllDay)
	s.Equal(corTarefaFeed, eventos[0].Color)

	// Completing removes the task from the pending feed.
	tarefas, err := s.repo.ListTarefas(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(tarefas, 1)

	resp = s.get(c, "/concluir-tarefa/"+itoa(tarefas[0].ID))
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	eventos = decodeJSON[[]evento](s, s.get(c, "/api/tarefas"))
	s.Empty(eventos)
}

func (s *ServerTestSuite) TestSalvarTarefaRejectsBadDate() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	resp := s.postForm(c, "/salvar-tarefa", url.Values{
		"titulo": {"Dentista"},
		"data":   {"01/09/2026"},
	})
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/add-tarefa", resp.Header.Get("Location"))

	tarefas, err := s.repo.ListTarefas(context.Background(), 1)
	s.Require().NoError(err)
	s.Empty(tarefas)
}

func (s *ServerTestSuite) TestFinancasDataAggregation() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	resp := s.postForm(c, "/financas", url.Values{
		"tipo":      {"entrada"},
		"valor":     {"1520,00"},
		"categoria": {"salario"},
		"data":      {"2026-08-01"},
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	resp = s.postForm(c, "/financas", url.Values{
		"tipo":      {"saida"},
		"valor":     {"30,00"},
		"categoria": {"mercado"},
		"data":      {"2026-08-02"},
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	type dados struct {
		Totais struct {
			Entrada float64 `json:"entrada"`
			Saida   float64 `json:"saida"`
		} `json:"totais"`
		PorCategoria struct {
			Labels []string  `json:"labels"`
			Values []float64 `json:"values"`
			Colors []string  `json:"colors"`
		} `json:"por_categoria"`
	}
	d := decodeJSON[dados](s, s.get(c, "/financas/data"))
	s.Equal(1520.0, d.Totais.Entrada)
	s.Equal(30.0, d.Totais.Saida)
	s.Equal([]string{"Salário/Trabalho", "Mercado"}, d.PorCategoria.Labels)
	s.Equal([]float64{1520.0, -30.0}, d.PorCategoria.Values)
	s.Equal([]string{"#4CAF50", "#3F51B5"}, d.PorCategoria.Colors)
}

func (s *ServerTestSuite) TestFinancasRejectsBadValor() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	for _, valor := range []string{"", "abc", "0", "-5,00"} {
		resp := s.postForm(c, "/financas", url.Values{
			"tipo":  {"saida"},
			"valor": {valor},
		})
		resp.Body.Close()
		s.Equal(http.StatusSeeOther, resp.StatusCode, valor)
	}

	financas, err := s.repo.ListFinancas(context.Background(), 1)
	s.Require().NoError(err)
	s.Empty(financas)
}

func (s *ServerTestSuite) TestApagarFinancaIsOwnerScoped() {
	ana := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	resp := s.postForm(ana, "/financas", url.Values{
		"tipo":  {"saida"},
		"valor": {"30,00"},
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	financas, err := s.repo.ListFinancas(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(financas, 1)

	// Beto posts a delete against Ana's entry; nothing happens.
	beto := s.signupAndLogin("Beto", "beto@example.com", "segredo456")
	resp = s.postForm(beto, "/apagar/"+itoa(financas[0].ID), nil)
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	financas, err = s.repo.ListFinancas(context.Background(), 1)
	s.Require().NoError(err)
	s.Len(financas, 1)

	resp = s.postForm(ana, "/apagar/"+itoa(financas[0].ID), nil)
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	financas, err = s.repo.ListFinancas(context.Background(), 1)
	s.Require().NoError(err)
	s.Empty(financas)
}

func (s *ServerTestSuite) TestLembretesAPI() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	body := strings.NewReader(`{"tipo":"conta","descricao":"Pagar luz","data":"2026-09-10"}`)
	resp, err := c.Post(s.ts.URL+"/api/lembretes", "application/json", body)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := decodeJSON[map[string]any](s, resp)
	s.Equal("Pagar luz", created["descricao"])

	type lembrete struct {
		ID        int64  `json:"id"`
		Tipo      string `json:"tipo"`
		Descricao string `json:"descricao"`
		Data      string `json:"data"`
	}
	lembretes := decodeJSON[[]lembrete](s, s.get(c, "/api/lembretes"))
	s.Require().Len(lembretes, 1)
	s.Equal("conta", lembretes[0].Tipo)

	// Another account sees an empty list and cannot delete it.
	beto := s.signupAndLogin("Beto", "beto@example.com", "segredo456")
	s.Empty(decodeJSON[[]lembrete](s, s.get(beto, "/api/lembretes")))

	resp = s.postForm(beto, "/api/lembretes/excluir/"+itoa(lembretes[0].ID), nil)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	lembretes = decodeJSON[[]lembrete](s, s.get(c, "/api/lembretes"))
	s.Len(lembretes, 1)
}

func (s *ServerTestSuite) TestSalvarPreferenciasChangesPassword() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	resp := s.postForm(c, "/salvar_preferencias", url.Values{
		"nome":            {"Ana Maria"},
		"email":           {"ana@example.com"},
		"senha_atual":     {"segredo123"},
		"nova_senha":      {"novosegredo"},
		"confirmar_senha": {"novosegredo"},
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/perfil", resp.Header.Get("Location"))

	fresh := s.newClient()
	resp = s.postForm(fresh, "/login", url.Values{"email": {"ana@example.com"}, "senha": {"segredo123"}})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.postForm(fresh, "/login", url.Values{"email": {"ana@example.com"}, "senha": {"novosegredo"}})
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)
}

func (s *ServerTestSuite) TestSalvarPreferenciasRejectsWrongCurrentPassword() {
	c := s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	resp := s.postForm(c, "/salvar_preferencias", url.Values{
		"nome":            {"Ana"},
		"email":           {"ana@example.com"},
		"senha_atual":     {"errada"},
		"nova_senha":      {"novosegredo"},
		"confirmar_senha": {"novosegredo"},
	})
	resp.Body.Close()
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	// Old password still works.
	fresh := s.newClient()
	resp = s.postForm(fresh, "/login", url.Values{"email": {"ana@example.com"}, "senha": {"segredo123"}})
	resp.Body.Close()
	s.Equal(http.StatusSeeOther, resp.StatusCode)
}

func (s *ServerTestSuite) TestRecuperarSenhaIsUniformForUnknownEmail() {
	s.signupAndLogin("Ana", "ana@example.com", "segredo123")

	c := s.newClient()
	known := s.postForm(c, "/recuperar-senha", url.Values{"email": {"ana@example.com"}})
	known.Body.Close()
	unknown := s.postForm(c, "/recuperar-senha", url.Values{"email": {"nao@existe.com"}})
	unknown.Body.Close()

	s.Equal(known.StatusCode, unknown.StatusCode)
	s.Equal(known.Header.Get("Location"), unknown.Header.Get("Location"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
