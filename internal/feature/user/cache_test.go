package user_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"go-user-admin-api/internal/core/cache"
)

func newCachedTestServer(t *testing.T) *testServer {
	t.Helper()
	srv := miniredis.RunT(t)
	return newTestServerWith(t, cache.New(srv.Addr(), "", 0))
}

func (s *testServer) createUser(t *testing.T, token string, body gin.H) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body %s", w.Code, w.Body.String())
	}
	id, ok := decodeMap(t, w)["id"].(float64)
	if !ok {
		t.Fatalf("create: body %s lacks id", w.Body.String())
	}
	return uint(id)
}

// 自增 id 会落在之前 404 过的位置上，落库后必须能立刻读到
func TestGet_CachedMissClearedByCreate(t *testing.T) {
	s := newCachedTestServer(t)
	tok := s.login(t, "admin", "admin")

	first := s.createUser(t, tok, gin.H{"username": "pre", "password": "prepw"})
	next := first + 1

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", next), tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("before create: status = %d", w.Code)
	}

	got := s.createUser(t, tok, gin.H{"username": "fresh", "password": "freshpw"})
	if got != next {
		t.Fatalf("created id = %d, want %d", got, next)
	}

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", next), tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("after create: status = %d body %s", w.Code, w.Body.String())
	}
	if m := decodeMap(t, w); m["username"] != "fresh" {
		t.Fatalf("body = %v", m)
	}
}

func TestGet_CachedEntryClearedByUpdate(t *testing.T) {
	s := newCachedTestServer(t)
	tok := s.login(t, "admin", "admin")
	path := fmt.Sprintf("/api/users/%d", s.basic.ID)

	w := s.do(t, http.MethodGet, path, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("prime: status = %d", w.Code)
	}

	w = s.do(t, http.MethodPut, path, tok, gin.H{"name": "Robert"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d body %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, path, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("re-read: status = %d", w.Code)
	}
	if m := decodeMap(t, w); m["name"] != "Robert" {
		t.Fatalf("cached body survived update: %v", m)
	}
}

func TestGet_CachedEntryClearedByDelete(t *testing.T) {
	s := newCachedTestServer(t)
	tok := s.login(t, "admin", "admin")
	path := fmt.Sprintf("/api/users/%d", s.basic.ID)

	w := s.do(t, http.MethodGet, path, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("prime: status = %d", w.Code)
	}

	w = s.do(t, http.MethodDelete, path, tok, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}

	w = s.do(t, http.MethodGet, path, tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("after delete: status = %d body %s", w.Code, w.Body.String())
	}
}
