package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/wayplan/backend/internal/memberships"
	"github.com/wayplan/backend/internal/trips"
	"github.com/wayplan/backend/pkg/enums"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
)

type stubTripsService struct {
	createResp   *trips.TripDTO
	getResp      *trips.TripDTO
	listResp     []trips.TripDTO
	validateResp *trips.ValidateJoinCodeResponse
	byCodeResp   *trips.TripDTO
	err          error

	deletedTripID uuid.UUID
}

func (s *stubTripsService) Create(_ context.Context, _ uuid.UUID, _ trips.CreateRequest) (*trips.TripDTO, error) {
	return s.createResp, s.err
}

func (s *stubTripsService) Get(_ context.Context, _ uuid.UUID) (*trips.TripDTO, error) {
	return s.getResp, s.err
}

func (s *stubTripsService) ListMine(_ context.Context, _ uuid.UUID) ([]trips.TripDTO, error) {
	return s.listResp, s.err
}

func (s *stubTripsService) Delete(_ context.Context, tripID uuid.UUID) error {
	s.deletedTripID = tripID
	return s.err
}

func (s *stubTripsService) ValidateJoinCode(_ context.Context, _ string) (*trips.ValidateJoinCodeResponse, error) {
	return s.validateResp, s.err
}

func (s *stubTripsService) FindByJoinCode(_ context.Context, _ string) (*trips.TripDTO, error) {
	return s.byCodeResp, s.err
}

type stubMembersService struct {
	joinResp *memberships.JoinResponse
	members  []memberships.MemberDTO
	mine     []memberships.MembershipDTO
	hasRole  bool
	err      error
}

func (s *stubMembersService) Join(_ context.Context, _, _ uuid.UUID, _ string) (*memberships.JoinResponse, error) {
	return s.joinResp, s.err
}

func (s *stubMembersService) ListMembers(_ context.Context, _ uuid.UUID) ([]memberships.MemberDTO, error) {
	return s.members, s.err
}

func (s *stubMembersService) ListMine(_ context.Context, _ uuid.UUID) ([]memberships.MembershipDTO, error) {
	return s.mine, s.err
}

func (s *stubMembersService) UserHasRole(_ context.Context, _, _ uuid.UUID, _ ...enums.TripRole) (bool, error) {
	return s.hasRole, s.err
}

func tripFixture() *trips.TripDTO {
	return &trips.TripDTO{
		ID:       uuid.New(),
		JoinCode: "Ab3dEf7hQ2",
		Country:  "Portugal",
		Timezone: "3600000",
	}
}

func TestTripCreateReturns201(t *testing.T) {
	svc := &stubTripsService{createResp: tripFixture()}
	controller := NewTripsController(svc, &stubMembersService{}, nil)

	req := newRequest(t, http.MethodPost, "/api/v1/trips", map[string]any{
		"country":   "Portugal",
		"latitude":  38.7223,
		"longitude": -9.1393,
		"timezone":  "3600000",
	}, uuid.New(), nil)
	rec := httptest.NewRecorder()
	controller.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	data := dataField(t, rec)
	if data["join_code"] != "Ab3dEf7hQ2" {
		t.Fatalf("missing join code: %v", data)
	}
}

func TestTripCreateRequiresAuth(t *testing.T) {
	controller := NewTripsController(&stubTripsService{}, &stubMembersService{}, nil)

	req := newRequest(t, http.MethodPost, "/api/v1/trips", map[string]any{
		"country": "Portugal", "timezone": "3600000",
	}, uuid.Nil, nil)
	rec := httptest.NewRecorder()
	controller.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTripJoinStatusReflectsIdempotency(t *testing.T) {
	tripID := uuid.New()
	fresh := &memberships.JoinResponse{
		Membership: memberships.MembershipDTO{TripID: tripID, Role: enums.TripRoleUser},
	}
	controller := NewTripsController(&stubTripsService{}, &stubMembersService{joinResp: fresh}, nil)

	req := newRequest(t, http.MethodPost, "/api/v1/trips/"+tripID.String()+"/join",
		map[string]any{"join_code": "Ab3dEf7hQ2"}, uuid.New(),
		map[string]string{"tripId": tripID.String()})
	rec := httptest.NewRecorder()
	controller.Join(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("fresh join status = %d, want 201", rec.Code)
	}

	repeat := &memberships.JoinResponse{
		Membership:    memberships.MembershipDTO{TripID: tripID, Role: enums.TripRoleUser},
		AlreadyMember: true,
	}
	controller = NewTripsController(&stubTripsService{}, &stubMembersService{joinResp: repeat}, nil)
	req = newRequest(t, http.MethodPost, "/api/v1/trips/"+tripID.String()+"/join",
		map[string]any{"join_code": "Ab3dEf7hQ2"}, uuid.New(),
		map[string]string{"tripId": tripID.String()})
	rec = httptest.NewRecorder()
	controller.Join(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat join status = %d, want 200", rec.Code)
	}
}

func TestTripValidateJoinCode(t *testing.T) {
	svc := &stubTripsService{validateResp: &trips.ValidateJoinCodeResponse{IsValid: true}}
	controller := NewTripsController(svc, &stubMembersService{}, nil)

	req := newRequest(t, http.MethodGet, "/api/v1/trips/join-codes/FreshCode2/validate",
		nil, uuid.New(), map[string]string{"code": "FreshCode2"})
	rec := httptest.NewRecorder()
	controller.ValidateJoinCode(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := dataField(t, rec)
	if data["is_valid"] != true {
		t.Fatalf("is_valid = %v, want true", data["is_valid"])
	}
}

func TestTripDeleteNotFound(t *testing.T) {
	svc := &stubTripsService{err: pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")}
	controller := NewTripsController(svc, &stubMembersService{}, nil)

	tripID := uuid.New()
	req := newRequest(t, http.MethodDelete, "/api/v1/trips/"+tripID.String(),
		nil, uuid.New(), map[string]string{"tripId": tripID.String()})
	rec := httptest.NewRecorder()
	controller.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTripMembers(t *testing.T) {
	members := &stubMembersService{
		members: []memberships.MemberDTO{
			{UserID: uuid.New(), Role: enums.TripRoleCreator, FirstName: "Ada"},
		},
	}
	controller := NewTripsController(&stubTripsService{}, members, nil)

	tripID := uuid.New()
	req := newRequest(t, http.MethodGet, "/api/v1/trips/"+tripID.String()+"/members",
		nil, uuid.New(), map[string]string{"tripId": tripID.String()})
	rec := httptest.NewRecorder()
	controller.Members(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestTripMyMemberships(t *testing.T) {
	userID := uuid.New()
	members := &stubMembersService{
		mine: []memberships.MembershipDTO{
			{ID: uuid.New(), TripID: uuid.New(), UserID: userID, Role: enums.TripRoleCreator},
			{ID: uuid.New(), TripID: uuid.New(), UserID: userID, Role: enums.TripRoleUser},
		},
	}
	controller := NewTripsController(&stubTripsService{}, members, nil)

	req := newRequest(t, http.MethodGet, "/api/v1/trips/memberships", nil, userID, nil)
	rec := httptest.NewRecorder()
	controller.MyMemberships(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	rows, ok := envelope["data"].([]any)
	if !ok {
		t.Fatalf("missing data array: %s", rec.Body.String())
	}
	if len(rows) != 2 {
		t.Fatalf("got %d memberships, want 2", len(rows))
	}
}

func TestTripMyMembershipsRequiresAuth(t *testing.T) {
	controller := NewTripsController(&stubTripsService{}, &stubMembersService{}, nil)

	req := newRequest(t, http.MethodGet, "/api/v1/trips/memberships", nil, uuid.Nil, nil)
	rec := httptest.NewRecorder()
	controller.MyMemberships(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
