package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/HerbHall/contactbook/internal/services"
	"github.com/HerbHall/contactbook/internal/testutil"
)

func TestSQLitePhoneRepository(t *testing.T) {
	s := newContactStore(t)
	contacts := services.NewSQLiteContactRepository(s)
	phones := services.NewSQLitePhoneRepository(s)
	ctx := context.Background()

	jan := testutil.NewContact(
		testutil.WithName("Jan", "Kowalski"),
		testutil.WithPhone("111-111-1111", "Domowy"),
		testutil.WithPhone("222-222-2222", "Służbowy"),
	)
	adam := testutil.NewContact(testutil.WithName("Adam", "Nowak"))
	if err := contacts.Create(ctx, &jan); err != nil {
		t.Fatalf("Create jan: %v", err)
	}
	if err := contacts.Create(ctx, &adam); err != nil {
		t.Fatalf("Create adam: %v", err)
	}

	t.Run("list", func(t *testing.T) {
		got, err := phones.ListForContact(ctx, jan.ID)
		if err != nil {
			t.Fatalf("ListForContact: %v", err)
		}
		if len(got) != 2 || got[0].Number != "111-111-1111" || got[1].Number != "222-222-2222" {
			t.Errorf("phones = %+v", got)
		}
	})

	t.Run("list empty", func(t *testing.T) {
		got, err := phones.ListForContact(ctx, adam.ID)
		if err != nil {
			t.Fatalf("ListForContact: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("phones = %#v, want empty non-nil", got)
		}
	})

	t.Run("list missing contact", func(t *testing.T) {
		if _, err := phones.ListForContact(ctx, 999); !errors.Is(err, services.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("get", func(t *testing.T) {
		p, err := phones.Get(ctx, jan.ID, jan.Phones[1].ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if p.Description != "Służbowy" || p.ContactID != jan.ID {
			t.Errorf("phone = %+v", p)
		}
	})

	t.Run("get wrong owner", func(t *testing.T) {
		if _, err := phones.Get(ctx, adam.ID, jan.Phones[0].ID); !errors.Is(err, services.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if _, err := phones.Get(ctx, jan.ID, 999); !errors.Is(err, services.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}
