package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/adapters/http/api"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/app"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/pkg/auth"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := app.New(
		app.WithOwner("0xalice"),
		app.WithSkillSeeds([]string{"Vegetarian", "Meat", "Sushi", "Fish"}),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start platform: %v", err)
	}
	tokens := auth.NewHMACService("test-secret", time.Hour)

	mux := http.NewServeMux()
	api.NewServer(svc, tokens).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func register(t *testing.T, ts *httptest.Server, address, name string) string {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, ts.URL+"/accounts", "", map[string]any{
		"address": address, "name": name,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d", address, status)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: empty token", address)
	}
	return token
}

func createItem(t *testing.T, ts *httptest.Server, token, name, skill string) string {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, ts.URL+"/items", token, map[string]any{
		"name": name, "skill": skill,
		"token_name": name + " Token", "token_symbol": "TOK", "token_supply": 1000,
	})
	if status != http.StatusCreated {
		t.Fatalf("create item: status %d body %v", status, body)
	}
	id, _ := body["id"].(string)
	return id
}

func TestAccountRoutes(t *testing.T) {
	Convey("Given a running API", t, func() {
		ts := newTestServer(t)

		Convey("When bob registers", func() {
			token := register(t, ts, "0xbob", "Bob")
			So(token, ShouldNotBeEmpty)

			Convey("Then the directory lists him", func() {
				status, _ := doJSON(t, http.MethodGet, ts.URL+"/accounts", "", nil)
				So(status, ShouldEqual, http.StatusOK)
			})

			Convey("And a duplicate registration conflicts", func() {
				status, _ := doJSON(t, http.MethodPost, ts.URL+"/accounts", "", map[string]any{
					"address": "0xbob", "name": "Bob again",
				})
				So(status, ShouldEqual, http.StatusConflict)
			})

			Convey("And removing someone else's account is forbidden", func() {
				register(t, ts, "0xcarl", "Carl")
				status, _ := doJSON(t, http.MethodDelete, ts.URL+"/accounts/0xcarl", token, nil)
				So(status, ShouldEqual, http.StatusForbidden)
			})

			Convey("And bob can remove his own account", func() {
				status, _ := doJSON(t, http.MethodDelete, ts.URL+"/accounts/0xbob", token, nil)
				So(status, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("When registering with a blank address", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/accounts", "", map[string]any{
				"address": " ", "name": "Nobody",
			})
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestItemRoutes(t *testing.T) {
	Convey("Given a registered owner", t, func() {
		ts := newTestServer(t)
		bobToken := register(t, ts, "0xbob", "Bob")

		Convey("When bob creates an item", func() {
			id := createItem(t, ts, bobToken, "Bobs sushi", "Sushi")
			So(id, ShouldNotBeEmpty)

			Convey("Then the item is readable without auth", func() {
				status, body := doJSON(t, http.MethodGet, ts.URL+"/items/"+id, "", nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["owner"], ShouldEqual, "0xbob")
				So(body["skill"], ShouldEqual, "Sushi")
				So(body["treasury"], ShouldEqual, 1000)
			})

			Convey("And only the owner can delete it", func() {
				carlToken := register(t, ts, "0xcarl", "Carl")
				status, _ := doJSON(t, http.MethodDelete, ts.URL+"/items/"+id, carlToken, nil)
				So(status, ShouldEqual, http.StatusForbidden)

				status, _ = doJSON(t, http.MethodDelete, ts.URL+"/items/"+id, bobToken, nil)
				So(status, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("When creating without a token", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items", "", map[string]any{
				"name": "No auth", "skill": "Meat",
			})
			So(status, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When creating with a bad bearer token", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items", "not-a-jwt", map[string]any{
				"name": "Bad auth", "skill": "Meat",
			})
			So(status, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When the skill tag is unknown", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items", bobToken, map[string]any{
				"name": "Bobs bbq", "skill": "Barbecue",
				"token_name": "BBQ", "token_symbol": "BBQ", "token_supply": 10,
			})
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching a malformed item id", func() {
			status, _ := doJSON(t, http.MethodGet, ts.URL+"/items/not-a-uuid", "", nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRatingRoutes(t *testing.T) {
	Convey("Given an item and two more accounts", t, func() {
		ts := newTestServer(t)
		bobToken := register(t, ts, "0xbob", "Bob")
		carlToken := register(t, ts, "0xcarl", "Carl")
		register(t, ts, "0xdave", "Dave")
		id := createItem(t, ts, bobToken, "Bobs veggies", "Vegetarian")

		Convey("When bob grants carl and carl rates 8", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/grant", bobToken, map[string]any{"rater": "0xcarl"})
			So(status, ShouldEqual, http.StatusNoContent)

			status, body := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/ratings", carlToken, map[string]any{"score": 8})
			So(status, ShouldEqual, http.StatusCreated)
			So(body["score"], ShouldEqual, 8)
			So(body["order_key"], ShouldEqual, 1)
			So(body["rater"], ShouldEqual, "0xcarl")

			Convey("Then the ledger and permission reflect it", func() {
				status, body := doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/ratings", "", nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["scores"], ShouldResemble, []any{float64(8)})
				So(body["skills"], ShouldResemble, []any{float64(1)})

				status, body = doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/permissions/0xcarl", "", nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["status"], ShouldEqual, "used")
			})

			Convey("And a second rating from carl conflicts", func() {
				status, _ := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/ratings", carlToken, map[string]any{"score": 9})
				So(status, ShouldEqual, http.StatusConflict)
			})

			Convey("And carl's reward balance is visible to him", func() {
				status, body := doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/balance", carlToken, nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["balance"], ShouldEqual, 1)
			})

			Convey("And the simple average scores 8", func() {
				status, body := doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/score?fn=0", "", nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["score"], ShouldEqual, 8)
			})
		})

		Convey("When an ungranted rater submits", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/ratings", carlToken, map[string]any{"score": 5})
			So(status, ShouldEqual, http.StatusConflict)
		})

		Convey("When the score is out of range", func() {
			doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/grant", bobToken, map[string]any{"rater": "0xcarl"})
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/ratings", carlToken, map[string]any{"score": 11})
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When someone other than the owner grants", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/grant", carlToken, map[string]any{"rater": "0xdave"})
			So(status, ShouldEqual, http.StatusForbidden)
		})

		Convey("When a commitment is paid exactly", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/commit", bobToken, map[string]any{"rater": "0xcarl", "amount": 25})
			So(status, ShouldEqual, http.StatusNoContent)

			status, _ = doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/pay", carlToken, map[string]any{"amount": 25})
			So(status, ShouldEqual, http.StatusNoContent)

			status, body := doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/permissions/0xcarl", "", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "granted")
		})

		Convey("When a commitment is paid with the wrong amount", func() {
			doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/commit", bobToken, map[string]any{"rater": "0xcarl", "amount": 25})

			status, _ := doJSON(t, http.MethodPost, ts.URL+"/items/"+id+"/pay", carlToken, map[string]any{"amount": 24})
			So(status, ShouldEqual, http.StatusNoContent)

			_, body := doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/permissions/0xcarl", "", nil)
			So(body["status"], ShouldEqual, "none")
		})
	})
}

func TestScoringAndSkillRoutes(t *testing.T) {
	Convey("Given a running API", t, func() {
		ts := newTestServer(t)
		bobToken := register(t, ts, "0xbob", "Bob")

		Convey("Then the function registry lists four entries", func() {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/functions", nil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var entries []map[string]any
			So(json.NewDecoder(resp.Body).Decode(&entries), ShouldBeNil)
			So(len(entries), ShouldEqual, 4)
			So(entries[0]["label"], ShouldEqual, "Simple Average")
		})

		Convey("And an out-of-range function index is 404", func() {
			id := createItem(t, ts, bobToken, "Bobs fish", "Fish")
			status, _ := doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/score?fn=9", "", nil)
			So(status, ShouldEqual, http.StatusNotFound)
		})

		Convey("And a missing fn query is 400", func() {
			id := createItem(t, ts, bobToken, "Bobs fish", "Fish")
			status, _ := doJSON(t, http.MethodGet, ts.URL+"/items/"+id+"/score", "", nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a non-owner adds a skill", func() {
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/skills", bobToken, map[string]any{"name": "Barbecue"})
			So(status, ShouldEqual, http.StatusForbidden)
		})

		Convey("And account skills read empty for a fresh address", func() {
			status, body := doJSON(t, http.MethodGet, ts.URL+"/accounts/0xbob/skills", "", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["address"], ShouldEqual, "0xbob")
		})

		Convey("And health and stats respond", func() {
			status, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "ok")

			status, body = doJSON(t, http.MethodGet, ts.URL+"/stats", "", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["functions"], ShouldEqual, 4)
		})
	})
}

func TestExpiredToken(t *testing.T) {
	Convey("Given a token service with an expired clock", t, func() {
		ts := newTestServer(t)
		register(t, ts, "0xbob", "Bob")

		shortLived := auth.NewHMACService("test-secret", time.Millisecond)
		token, err := shortLived.IssueToken("0xbob")
		So(err, ShouldBeNil)
		time.Sleep(50 * time.Millisecond)

		Convey("Then the API rejects it", func() {
			status, body := doJSON(t, http.MethodPost, ts.URL+"/items", token, map[string]any{
				"name": "Stale", "skill": "Meat",
			})
			So(status, ShouldEqual, http.StatusUnauthorized)
			So(fmt.Sprint(body["message"]), ShouldContainSubstring, "expired")
		})
	})
}
