package ws

import "testing"

func TestRegistryRegisterLookupRemove(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("c1"); ok {
		t.Fatal("lookup on empty registry should miss")
	}

	r.Register(Identity{ConnID: "c1", UserID: 7, Username: "alice", Rating: 1000})

	id, ok := r.Lookup("c1")
	if !ok || id.UserID != 7 || id.Username != "alice" {
		t.Fatalf("lookup = %+v (%v)", id, ok)
	}

	// re-register overwrites the prior association
	r.Register(Identity{ConnID: "c1", UserID: 8, Username: "bob", Rating: 1200})
	id, _ = r.Lookup("c1")
	if id.UserID != 8 || id.Rating != 1200 {
		t.Fatalf("overwrite failed: %+v", id)
	}

	r.Remove("c1")
	if _, ok := r.Lookup("c1"); ok {
		t.Fatal("lookup after remove should miss")
	}

	// removing an absent connection is a no-op
	r.Remove("c1")
	if r.Len() != 0 {
		t.Fatalf("len = %d; want 0", r.Len())
	}
}
