package gateway_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/mevansam/jmux"
	"github.com/mevansam/jmux/config"
	"github.com/mevansam/jmux/gateway"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("gateway server", func() {

	var (
		catalog *config.Catalog
		server  *gateway.Server
	)

	BeforeEach(func() {
		schema := jmux.NewSchemaBuilder().
			Field("id", jmux.SinkSingle, jmux.KindString).
			Field("content", jmux.SinkStream, jmux.KindString).
			Build()

		catalog = config.NewCatalog(map[string]*jmux.Schema{
			"completion": schema,
		})
		server = gateway.NewServer(catalog, []byte("test-signing-key"))
	})

	startSession := func() (id, token string) {
		body := strings.NewReader(`{"schema":"completion"}`)
		req := httptest.NewRequest("POST", "/sessions", body)
		rec := httptest.NewRecorder()
		server.Engine().ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var resp struct {
			ID    string `json:"id"`
			Token string `json:"token"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return resp.ID, resp.Token
	}

	It("starts a session against a known schema", func() {
		id, token := startSession()
		Expect(id).ToNot(BeEmpty())
		Expect(token).ToNot(BeEmpty())
	})

	It("rejects starting a session against an unknown schema", func() {
		body := strings.NewReader(`{"schema":"does-not-exist"}`)
		req := httptest.NewRequest("POST", "/sessions", body)
		rec := httptest.NewRecorder()
		server.Engine().ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects feeding a session without a bearer token", func() {
		id, _ := startSession()

		req := httptest.NewRequest("POST", "/sessions/"+id+"/feed", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		server.Engine().ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("feeds a session and resolves a single-sink field", func() {
		id, token := startSession()

		feedReq := httptest.NewRequest("POST", "/sessions/"+id+"/feed", strings.NewReader(`{"id":"abc","content":"hi"}`))
		feedReq.Header.Set("Authorization", "Bearer "+token)
		feedRec := httptest.NewRecorder()
		server.Engine().ServeHTTP(feedRec, feedReq)
		Expect(feedRec.Code).To(Equal(http.StatusAccepted))

		fieldReq := httptest.NewRequest("GET", "/sessions/"+id+"/fields/id", nil)
		fieldReq.Header.Set("Authorization", "Bearer "+token)
		fieldRec := httptest.NewRecorder()
		server.Engine().ServeHTTP(fieldRec, fieldReq)
		Expect(fieldRec.Code).To(Equal(http.StatusOK))

		var resp struct {
			Value string `json:"value"`
		}
		Expect(json.Unmarshal(fieldRec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Value).To(Equal("abc"))
	})

	It("rejects a bearer token scoped to a different session", func() {
		_, token := startSession()
		otherID, _ := startSession()

		req := httptest.NewRequest("GET", "/sessions/"+otherID+"/fields/id", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		server.Engine().ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
