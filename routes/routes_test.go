package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"piercing-studio-site/config"
	"piercing-studio-site/models"
	"piercing-studio-site/services"
	"piercing-studio-site/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	businessJSON = `{"name":"Multnomah Body Piercing & Tattoo","address":"1861 NE DIVISION ST GRESHAM OR. 97030","phone":"(503) 669-4191","email":"Multnomahtattoo@gmail.com","hours":{"tuesday":"11:00 AM - 6:00 PM","sunday":"CLOSED"}}`
	pricingJSON  = `{"single_piercings":{"set_of_earlobes":{"name":"Set of Earlobes","price":80},"industrial":{"name":"Industrial","price":100}},"standard_piercings":{"single":{"price":90,"types":["Nostril","Helix"]},"pair":{"price":130,"additional":20}},"guarantee":"All piercings include a three month guarantee"}`
)

type backend struct {
	srv          *httptest.Server
	submissions  atomic.Int32
	readsFail    bool
	businessBody string
	pricingBody  string
	submitBody   string
}

func newBackend(t *testing.T, readsFail bool, submitBody string) *backend {
	t.Helper()
	b := &backend{readsFail: readsFail, businessBody: businessJSON, pricingBody: pricingJSON, submitBody: submitBody}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/business-info", func(w http.ResponseWriter, r *http.Request) {
		if b.readsFail {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(b.businessBody))
	})
	mux.HandleFunc("GET /api/pricing", func(w http.ResponseWriter, r *http.Request) {
		if b.readsFail {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(b.pricingBody))
	})
	mux.HandleFunc("POST /api/release-form", func(w http.ResponseWriter, r *http.Request) {
		b.submissions.Add(1)
		w.Write([]byte(b.submitBody))
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

type site struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newSite(t *testing.T, b *backend) *site {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		BackendURL:     b.srv.URL,
		SessionTTL:     time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	reg := prometheus.NewRegistry()
	metrics := config.NewMetrics(reg)
	api := services.NewStudioClient(b.srv.URL, 2*time.Second, services.StudioBreakers{}, metrics.UpstreamRequests)
	sessions := services.NewSessionManager(services.NewMemoryStore(), api, cfg.SessionTTL, zap.NewNop(),
		services.WithSessionCounters(metrics.SessionsMounted, metrics.SessionsPruned))

	r, err := SetupRouter(Deps{
		Config:   cfg,
		Logger:   zap.NewNop(),
		Metrics:  metrics,
		Gatherer: reg,
		API:      api,
		Sessions: sessions,
		Tokens:   utils.NewSessionTokens("test-secret", cfg.SessionTTL),
		Version:  "test",
	})
	require.NoError(t, err)
	return &site{t: t, handler: r}
}

func (s *site) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	if got := w.Result().Cookies(); len(got) > 0 {
		s.cookies = got
	}
	return w
}

func (s *site) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *site) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *site) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func validForm() url.Values {
	return url.Values{
		"first_name":     {"Jane"},
		"last_name":      {"Doe"},
		"email":          {"jane@example.com"},
		"phone":          {"503-555-0100"},
		"date_of_birth":  {"1999-04-12"},
		"piercing_type":  {"Helix"},
		"jewelry_choice": {"16g_labret_stud"},
		"agreed_terms":   {"true"},
	}
}

func TestHomePageShowsBusinessInfo(t *testing.T) {
	s := newSite(t, newBackend(t, false, ""))

	w := s.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Professional Body Piercing Services")
	assert.Contains(t, body, "Visit Our Studio")
	assert.Contains(t, body, "(503) 669-4191")
	assert.Contains(t, body, "<strong>Tuesday:</strong>")
	assert.NotContains(t, body, "Digital Release Form")
	assert.NotContains(t, body, "Piercing Prices")
	require.NotEmpty(t, s.cookies)
	assert.Equal(t, utils.SessionCookieName, s.cookies[0].Name)
}

func TestTabSelectionSwitchesPanels(t *testing.T) {
	s := newSite(t, newBackend(t, false, ""))
	s.get("/")

	w := s.postForm("/tab/pricing", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	body := s.get("/").Body.String()
	assert.Contains(t, body, "Piercing Prices")
	assert.Contains(t, body, "$130")
	assert.Contains(t, body, "*No downsize included")
	assert.Contains(t, body, "$20 for each additional piercing")
	assert.NotContains(t, body, "Visit Our Studio")
	assert.NotContains(t, body, "Digital Release Form")

	body = s.get("/?tab=release-form").Body.String()
	assert.Contains(t, body, "Digital Release Form")
	assert.NotContains(t, body, "Piercing Prices")
}

func TestUnknownTabIsRejected(t *testing.T) {
	s := newSite(t, newBackend(t, false, ""))
	assert.Equal(t, http.StatusBadRequest, s.postForm("/tab/admin", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.get("/?tab=admin").Code)
}

func TestReleaseFormWithoutTermsIsNotSent(t *testing.T) {
	b := newBackend(t, false, `{"success":true,"pricing":90}`)
	s := newSite(t, b)

	form := validForm()
	form.Del("agreed_terms")
	w := s.postForm("/release-form", form)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "You must agree to the terms and conditions")
	assert.Contains(t, w.Body.String(), `value="Jane"`)
	assert.Zero(t, b.submissions.Load())
}

func TestReleaseFormSubmitSuccess(t *testing.T) {
	b := newBackend(t, false, `{"success":true,"client_id":"abc","pricing":90,"message":"Release form submitted successfully!"}`)
	s := newSite(t, b)

	w := s.postForm("/release-form", validForm())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Form submitted successfully! Your piercing price: $90")
	assert.Equal(t, int32(1), b.submissions.Load())

	// The form keeps its values after submitting.
	w = s.get("/view.json")
	require.Equal(t, http.StatusOK, w.Code)
	var view models.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.ReleaseForm)
	assert.Equal(t, "Jane", view.ReleaseForm.Form.FirstName)
	assert.Equal(t, models.JewelryLabretStud, view.ReleaseForm.Form.JewelryChoice)
	assert.Equal(t, services.SuccessMessage(ptr(90)), view.ReleaseForm.Message)
}

func TestReleaseFormSubmitRejected(t *testing.T) {
	b := newBackend(t, false, `{"success":false}`)
	s := newSite(t, b)

	w := s.postForm("/release-form", validForm())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), services.SubmitFailureMessage)
	assert.Equal(t, int32(1), b.submissions.Load())
}

func TestReleaseFormSubmitTransportFailure(t *testing.T) {
	b := newBackend(t, false, "")
	s := newSite(t, b)
	s.get("/")
	b.srv.Close()

	w := s.postForm("/release-form", validForm())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), services.SubmitFailureMessage)
}

func TestReleaseFormRejectsUnknownJewelry(t *testing.T) {
	b := newBackend(t, false, `{"success":true,"pricing":90}`)
	s := newSite(t, b)

	form := validForm()
	form.Set("jewelry_choice", "gold_hoop")
	w := s.postForm("/release-form", form)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Please choose one of the listed jewelry options")
	assert.Contains(t, w.Body.String(), `value="Jane"`)
	assert.Zero(t, b.submissions.Load())

	w = s.get("/view.json")
	var view models.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.ReleaseForm)
	assert.Equal(t, models.JewelryBeadRing, view.ReleaseForm.Form.JewelryChoice)

	// Correcting the choice submits normally.
	w = s.postForm("/release-form", validForm())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), b.submissions.Load())
}

func TestEmptyUpstreamBodiesOmitBlocks(t *testing.T) {
	b := newBackend(t, false, "")
	b.businessBody = "null"
	b.pricingBody = "{}"
	s := newSite(t, b)

	w := s.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Professional Body Piercing Services")
	assert.NotContains(t, w.Body.String(), "Visit Our Studio")

	w = s.get("/?tab=pricing")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Piercing Prices")
	assert.NotContains(t, w.Body.String(), "$0")
}

func TestPricingKeepsUpstreamOrder(t *testing.T) {
	b := newBackend(t, false, "")
	b.pricingBody = `{"single_piercings":{"industrial":{"name":"Industrial","price":100},"surface_bar":{"name":"Surface Bar","price":100},"nipple":{"name":"Nipple (one)","price":50}},"standard_piercings":{"single":{"price":90},"pair":{"price":130}},"guarantee":"x"}`
	s := newSite(t, b)

	body := s.get("/?tab=pricing").Body.String()
	industrial := strings.Index(body, "Industrial")
	surface := strings.Index(body, "Surface Bar")
	nipple := strings.Index(body, "Nipple (one)")
	require.True(t, industrial >= 0 && surface >= 0 && nipple >= 0)
	assert.Less(t, industrial, surface)
	assert.Less(t, surface, nipple)
}

func TestPanelsOmitMissingData(t *testing.T) {
	s := newSite(t, newBackend(t, true, ""))

	w := s.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Professional Body Piercing Services")
	assert.NotContains(t, w.Body.String(), "Visit Our Studio")

	w = s.get("/?tab=pricing")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Piercing Prices")
	assert.NotContains(t, w.Body.String(), "Professional Body Piercing Services")
}

func TestViewAPI(t *testing.T) {
	b := newBackend(t, false, `{"success":true,"pricing":45}`)
	s := newSite(t, b)

	w := s.postJSON("/view/tab", `{"tab":"pricing"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var view models.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, models.TabPricing, view.ActiveTab)
	assert.NotNil(t, view.Pricing)
	assert.Nil(t, view.Home)

	assert.Equal(t, http.StatusBadRequest, s.postJSON("/view/tab", `{"tab":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.postJSON("/view/field", `{"field":"jewelry_choice","value":"gold_hoop"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.postJSON("/view/field", `{"field":"nickname","value":"x"}`).Code)

	w = s.postJSON("/view/submit", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "agreed_terms")
	assert.Zero(t, b.submissions.Load())

	for field, value := range validForm() {
		body, _ := json.Marshal(map[string]string{"field": field, "value": value[0]})
		require.Equal(t, http.StatusOK, s.postJSON("/view/field", string(body)).Code, field)
	}
	s.postJSON("/view/tab", `{"tab":"release-form"}`)

	w = s.postJSON("/view/submit", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.ReleaseForm)
	assert.Contains(t, view.ReleaseForm.Message, "45")
	assert.Equal(t, int32(1), b.submissions.Load())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newSite(t, newBackend(t, false, ""))
	s.get("/")

	assert.Equal(t, http.StatusOK, s.get("/healthz").Code)

	w := s.get("/healthz/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"studio_api":{"status":"UP"}`)

	w = s.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studio_api_requests_total")
	assert.Contains(t, w.Body.String(), "view_sessions_mounted_total 1")
}

func ptr(v float64) *float64 { return &v }

func TestLivenessIgnoresUpstream(t *testing.T) {
	b := newBackend(t, false, "")
	s := newSite(t, b)
	b.srv.Close()

	w := s.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "studio_api")

	w = s.get("/healthz/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"DOWN"`)
}
