package handler

import (
	"net/http"
	"testing"
	"time"

	"voyago/internal/model"
)

func newCatalogEnv() (*fakeBackend, *CatalogHandler) {
	backend := newFakeBackend()
	return backend, NewCatalogHandler(backend, backend)
}

func TestVoyageAvailability(t *testing.T) {
	backend, h := newCatalogEnv()
	backend.voyages[1] = model.Voyage{ID: 1, Name: "Circuit Atlas", TotalSpots: 10, AvailableSpots: 4}
	backend.pools[model.VoyagePool(1).String()] = &fakePool{total: 10, avail: 4}

	rec := call(t, h.VoyageAvailability, http.MethodGet, "/v1/voyages/1/disponibilite",
		"", 0, "", map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	out := decodeBody(t, rec)
	if out["availableSpots"] != float64(4) {
		t.Errorf("availableSpots = %v, want 4", out["availableSpots"])
	}
	if out["offeringType"] != model.OfferingVoyage {
		t.Errorf("offeringType = %v, want %q", out["offeringType"], model.OfferingVoyage)
	}
}

func TestVoyageAvailabilityNotFound(t *testing.T) {
	_, h := newCatalogEnv()
	rec := call(t, h.VoyageAvailability, http.MethodGet, "/v1/voyages/9/disponibilite",
		"", 0, "", map[string]string{"id": "9"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSlotAvailability(t *testing.T) {
	backend, h := newCatalogEnv()
	backend.activities[2] = model.Activity{ID: 2, Name: "Quad"}
	backend.slots[10] = model.TimeSlot{ID: 10, ActivityID: 2, SlotDate: time.Now().UTC(), TotalSpots: 12}
	backend.pools[model.TimeSlotPool(2, 10).String()] = &fakePool{total: 12, avail: 9}

	rec := call(t, h.SlotAvailability, http.MethodGet, "/v1/creneaux/10/disponibilite",
		"", 0, "", map[string]string{"id": "10"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	out := decodeBody(t, rec)
	if out["availableSpots"] != float64(9) {
		t.Errorf("availableSpots = %v, want 9", out["availableSpots"])
	}
	if out["activityId"] != float64(2) {
		t.Errorf("activityId = %v, want 2", out["activityId"])
	}
}

func TestGetVoyage(t *testing.T) {
	backend, h := newCatalogEnv()
	backend.voyages[1] = model.Voyage{ID: 1, Name: "Circuit Atlas", Destination: "Maroc"}

	rec := call(t, h.GetVoyage, http.MethodGet, "/v1/voyages/1",
		"", 0, "", map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	out := decodeBody(t, rec)
	item := out["item"].(map[string]interface{})
	if item["destination"] != "Maroc" {
		t.Errorf("item.destination = %v, want Maroc", item["destination"])
	}
}

func TestListSlots(t *testing.T) {
	backend, h := newCatalogEnv()
	backend.activities[2] = model.Activity{ID: 2, Name: "Quad"}
	backend.slots[10] = model.TimeSlot{ID: 10, ActivityID: 2}
	backend.slots[11] = model.TimeSlot{ID: 11, ActivityID: 2}
	backend.slots[12] = model.TimeSlot{ID: 12, ActivityID: 3}

	rec := call(t, h.ListSlots, http.MethodGet, "/v1/activites/2/creneaux",
		"", 0, "", map[string]string{"id": "2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if out := decodeBody(t, rec); out["count"] != float64(2) {
		t.Errorf("count = %v, want 2", out["count"])
	}

	// Unknown activity is a 404, not an empty list.
	rec = call(t, h.ListSlots, http.MethodGet, "/v1/activites/9/creneaux",
		"", 0, "", map[string]string{"id": "9"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown activity status = %d, want 404", rec.Code)
	}
}
