package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"guidewizard/models"

	"github.com/goccy/go-json"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://guide-api.test/auth/api/v1"

var (
	testPNG  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	testJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	creds    = models.Credentials{AccessToken: "tok-1", AuthUserID: "77"}
)

func newGockClient(t *testing.T) *DefaultGuideAPIClient {
	t.Helper()
	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)
	t.Cleanup(func() {
		gock.RestoreClient(httpClient)
		gock.OffAll()
	})
	return NewGuideAPIClient(Options{
		BaseURL:    testBaseURL,
		AreaCode:   "+91",
		StaticOTP:  "123456",
		DeviceType: "mobile",
		AppVersion: "0.1.0",
		HTTPClient: httpClient,
	})
}

func noAuthHeaders(req *http.Request, _ *gock.Request) (bool, error) {
	return req.Header.Get("Authorization") == "" && req.Header.Get("X-Auth-Id") == "", nil
}

func jsonBodyEquals(want map[string]interface{}) gock.MatchFunc {
	return func(req *http.Request, _ *gock.Request) (bool, error) {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return false, err
		}
		var got map[string]interface{}
		if err := json.Unmarshal(raw, &got); err != nil {
			return false, err
		}
		wantRaw, _ := json.Marshal(want)
		var wantNorm map[string]interface{}
		_ = json.Unmarshal(wantRaw, &wantNorm)
		return assert.ObjectsAreEqual(wantNorm, got), nil
	}
}

func TestRequestOTP(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).
		Post("/auth/otp/generate").
		MatchHeader("Content-Type", "application/json").
		MatchHeader("X-Trace-Id", ".+").
		AddMatcher(noAuthHeaders).
		AddMatcher(jsonBodyEquals(map[string]interface{}{
			"area_code":    "+91",
			"phone_number": "9876543210",
			"user_type":    "guide",
			"purpose":      "login",
		})).
		Reply(200).
		JSON(map[string]interface{}{"otp_request_id": "req-1"})

	id, err := client.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "req-1", id)
	assert.True(t, gock.IsDone())
}

func TestRequestOTPNumericID(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).
		Post("/auth/otp/generate").
		Reply(200).
		JSON(map[string]interface{}{"otp_request_id": 4521})

	id, err := client.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "4521", id)
}

func TestRequestOTPMissingID(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).
		Post("/auth/otp/generate").
		Reply(200).
		JSON(map[string]interface{}{"message": "sent"})

	_, err := client.RequestOTP(context.Background(), "9876543210")
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.True(t, IsUpstream(err))
}

func TestVerifyOTPSubmitsStaticCode(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).
		Post("/auth/otp/validate").
		AddMatcher(noAuthHeaders).
		AddMatcher(jsonBodyEquals(map[string]interface{}{
			"area_code":    "+91",
			"phone_number": "9876543210",
			"user_type":    "guide",
			"otp_code":     "123456",
			"request_id":   "req-1",
			"device_info": map[string]interface{}{
				"device_type": "mobile",
				"app_version": "0.1.0",
			},
		})).
		Reply(200).
		JSON(map[string]interface{}{"access_token": "tok-1", "auth_user_id": 77})

	got, err := client.VerifyOTP(context.Background(), "9876543210", "req-1")
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestVerifyOTPHTTPError(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).
		Post("/auth/otp/validate").
		Reply(401).
		BodyString(`{"error":"invalid otp"}`)

	_, err := client.VerifyOTP(context.Background(), "9876543210", "req-1")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 401, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "invalid otp")
	assert.Equal(t, "validate_otp", httpErr.Op)
}

func TestNetworkError(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).
		Post("/guide/register").
		ReplyError(errors.New("connection reset"))

	err := client.RegisterGuide(context.Background(), models.Guide{FullName: "Asha"}, creds)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "register_guide", netErr.Op)
	assert.True(t, IsUpstream(err))
}

func TestFetchReferenceList(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).
		Get("/guide/languages").
		MatchHeader("Authorization", "^Bearer tok-1$").
		MatchHeader("X-Auth-Id", "^77$").
		MatchHeader("X-Trace-Id", ".+").
		Reply(200).
		JSON(map[string]interface{}{"languages": []map[string]interface{}{
			{"id": 10, "name": "Kannada"},
			{"id": 11, "name": "Gujarati"},
		}})

	got := client.FetchReferenceList(context.Background(), Languages, creds)
	assert.Equal(t, []models.ReferenceItem{{ID: 10, Name: "Kannada"}, {ID: 11, Name: "Gujarati"}}, got)
	assert.True(t, gock.IsDone())
}

func TestFetchReferenceListFallsBackOnServerError(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).Get("/guide/languages").Reply(500)
	gock.New(testBaseURL).Get("/guide/skills").Reply(500)

	languages := client.FetchReferenceList(context.Background(), Languages, creds)
	skills := client.FetchReferenceList(context.Background(), Skills, creds)

	require.Len(t, languages, 6)
	require.Len(t, skills, 6)
	assert.Equal(t, DefaultLanguages, languages)
	assert.Equal(t, DefaultSkills, skills)
}

func TestFetchReferenceListFallsBackOnEmptyList(t *testing.T) {
	client := newGockClient(t)

	gock.New(testBaseURL).Get("/guide/skills").Reply(200).JSON(map[string]interface{}{"skills": []interface{}{}})

	assert.Equal(t, DefaultSkills, client.FetchReferenceList(context.Background(), Skills, creds))
}

func TestDefaultReferenceListIsACopy(t *testing.T) {
	list := DefaultReferenceList(Languages)
	list[0].Name = "changed"
	assert.Equal(t, "Hindi", DefaultLanguages[0].Name)
}

func TestRegisterGuide(t *testing.T) {
	client := newGockClient(t)

	draft := models.Guide{
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Email:    "asha@example.com",
		Bio:      "Tarot reader",
		Address: models.Address{
			Line1: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001", Country: "India",
		},
		Languages:         []int{1},
		Skills:            []int{2},
		YearsOfExperience: 5,
	}

	gock.New(testBaseURL).
		Post("/guide/register").
		MatchHeader("Authorization", "^Bearer tok-1$").
		MatchHeader("X-Auth-Id", "^77$").
		AddMatcher(jsonBodyEquals(map[string]interface{}{
			"full_name": "Asha Rao",
			"phone":     "9876543210",
			"email":     "asha@example.com",
			"bio":       "Tarot reader",
			"address": map[string]interface{}{
				"line1": "12 MG Road", "city": "Pune", "state": "MH", "pincode": "411001", "country": "India",
			},
			"languages":           []int{1},
			"skills":              []int{2},
			"years_of_experience": 5,
		})).
		Reply(201)

	require.NoError(t, client.RegisterGuide(context.Background(), draft, creds))
	assert.True(t, gock.IsDone())
}

func TestTraceIDIsFreshPerCall(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.Header.Get("X-Trace-Id")] = true
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewGuideAPIClient(Options{BaseURL: server.URL})
	for i := 0; i < 3; i++ {
		require.NoError(t, client.RegisterGuide(context.Background(), models.Guide{}, creds))
	}
	assert.Len(t, seen, 3)
	assert.NotContains(t, seen, "")
}

func TestUploadProfilePicture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/guide/profile-picture", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		file, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, testPNG, data)
		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewGuideAPIClient(Options{BaseURL: server.URL})
	err := client.UploadProfilePicture(context.Background(), models.Document{
		Filename: "me.png", ContentType: "image/png", Data: testPNG,
	}, creds)
	require.NoError(t, err)
}

func TestSubmitKYC(t *testing.T) {
	bundle := models.KYCBundle{
		AadhaarFront: models.Document{Filename: "af.jpg", ContentType: "image/jpeg", Data: testJPEG},
		AadhaarBack:  models.Document{Filename: "ab.jpg", ContentType: "image/jpeg", Data: testJPEG},
		PanFront:     models.Document{Filename: "pf.png", ContentType: "image/png", Data: testPNG},
		PanBack:      models.Document{Filename: "pb.png", ContentType: "image/png", Data: testPNG},
		BankAccount: models.BankAccount{
			HolderName: "Asha Rao", AccountNumber: "1234567890", IFSC: "HDFC0001234", BankName: "HDFC", Branch: "Pune",
		},
	}

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/guide/kyc/submit", r.URL.Path)
		assert.Equal(t, "77", r.Header.Get("X-Auth-Id"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		for _, field := range []string{"aadhaar_front", "aadhaar_back", "pan_front", "pan_back"} {
			_, _, err := r.FormFile(field)
			assert.NoError(t, err, field)
		}
		var bank models.BankAccount
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("bank_account")), &bank))
		assert.Equal(t, bundle.BankAccount, bank)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewGuideAPIClient(Options{BaseURL: server.URL})
	require.NoError(t, client.SubmitKYC(context.Background(), bundle, creds))
	assert.Equal(t, 1, calls)
}

func TestSubmitKYCHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"pan unreadable"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewGuideAPIClient(Options{BaseURL: server.URL})
	err := client.SubmitKYC(context.Background(), models.KYCBundle{}, creds)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "pan unreadable")
}
