package patient

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-clinic-api/internal/model"
	"github.com/jwalitptl/dental-clinic-api/internal/service/patient"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakePatientRepo struct {
	patients []*model.Patient
	payments map[uuid.UUID][]*model.Payment
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error {
	p.ID = uuid.New()
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakePatientRepo) ListWithPayments(ctx context.Context) ([]*model.Patient, map[uuid.UUID][]*model.Payment, error) {
	return f.patients, f.payments, nil
}

// RecordPayment mirrors the repository contract: patient lookup first, so a
// missing patient is a wrapped sql.ErrNoRows with no payment stored.
func (f *fakePatientRepo) RecordPayment(ctx context.Context, payment *model.Payment) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.ID == payment.PatientID {
			payment.ID = uuid.New()
			if f.payments == nil {
				f.payments = map[uuid.UUID][]*model.Payment{}
			}
			f.payments[p.ID] = append(f.payments[p.ID], payment)
			p.ApplyPayment(payment.Amount)
			return p, nil
		}
	}
	return nil, fmt.Errorf("failed to get patient: %w", sql.ErrNoRows)
}

func newTestRouter(repo *fakePatientRepo) *gin.Engine {
	engine := gin.New()
	h := NewHandler(patient.NewService(repo))
	h.RegisterRoutes(engine.Group("/api"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreatePatient(t *testing.T) {
	engine := newTestRouter(&fakePatientRepo{})

	w := doJSON(t, engine, http.MethodPost, "/api/patients", map[string]interface{}{
		"name": "Jane Doe", "phone": "555-0199", "totalAmount": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	// Raw store field names on the row response.
	assert.Equal(t, "Jane Doe", created["name"])
	assert.EqualValues(t, 1000, created["total_amount"])
	assert.EqualValues(t, 0, created["paid_amount"])
	assert.EqualValues(t, 1000, created["remaining_amount"])
	assert.Equal(t, true, created["has_remaining_payment"])
}

func TestCreatePatientMissingName(t *testing.T) {
	engine := newTestRouter(&fakePatientRepo{})

	w := doJSON(t, engine, http.MethodPost, "/api/patients", map[string]interface{}{
		"phone": "555-0199", "totalAmount": 1000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordPaymentReturnsUpdatedPatient(t *testing.T) {
	repo := &fakePatientRepo{}
	engine := newTestRouter(repo)

	w := doJSON(t, engine, http.MethodPost, "/api/patients", map[string]interface{}{
		"name": "Jane Doe", "phone": "555-0199", "totalAmount": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := repo.patients[0].ID

	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/patients/%s/payments", id), map[string]interface{}{
		"amount": 400, "notes": "first installment",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.EqualValues(t, 400, updated["paid_amount"])
	assert.EqualValues(t, 600, updated["remaining_amount"])
	assert.Equal(t, true, updated["has_remaining_payment"])
}

func TestRecordPaymentUnknownPatient(t *testing.T) {
	repo := &fakePatientRepo{}
	engine := newTestRouter(repo)

	w := doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/patients/%s/payments", uuid.New()), map[string]interface{}{
		"amount": 400,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "patient not found")
	// No database wording reaches the client, and nothing was stored.
	assert.NotContains(t, w.Body.String(), "foreign key")
	assert.Empty(t, repo.payments)
}

func TestRecordPaymentInvalidID(t *testing.T) {
	engine := newTestRouter(&fakePatientRepo{})

	w := doJSON(t, engine, http.MethodPost, "/api/patients/not-a-uuid/payments", map[string]interface{}{"amount": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPatientsAggregateShape(t *testing.T) {
	repo := &fakePatientRepo{}
	engine := newTestRouter(repo)

	w := doJSON(t, engine, http.MethodPost, "/api/patients", map[string]interface{}{
		"name": "Jane Doe", "phone": "555-0199", "totalAmount": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := repo.patients[0].ID

	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/patients/%s/payments", id), map[string]interface{}{
		"amount": 400, "notes": "first installment",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/patients", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	entry := list[0]
	// Aggregate keys are camelCase, payments keep their raw field names.
	assert.EqualValues(t, 1000, entry["totalAmount"])
	assert.EqualValues(t, 400, entry["paidAmount"])
	assert.EqualValues(t, 600, entry["remainingAmount"])
	assert.Equal(t, true, entry["hasRemainingPayment"])

	history, ok := entry["paymentHistory"].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 1)
	paymentEntry := history[0].(map[string]interface{})
	assert.EqualValues(t, 400, paymentEntry["amount"])
	assert.Equal(t, "first installment", paymentEntry["notes"])
}
