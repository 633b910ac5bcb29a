package services

import (
	"context"
	"testing"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
)

func newAddressService() *AddressService {
	store := repository.NewMemoryStore()
	store.SeedProfiles(testBuyer)
	return NewAddressService(store)
}

func validAddressInput() models.AddressInput {
	return models.AddressInput{
		Label:      "Fazenda",
		Street:     "Rodovia BR-163, km 12",
		District:   "Zona Rural",
		City:       "Sorriso",
		State:      "MT",
		PostalCode: "78890-000",
	}
}

func TestAddAddressValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(input *models.AddressInput)
	}{
		{
			name:   "missing street",
			mutate: func(input *models.AddressInput) { input.Street = "" },
		},
		{
			name:   "missing city",
			mutate: func(input *models.AddressInput) { input.City = "  " },
		},
		{
			name:   "missing state",
			mutate: func(input *models.AddressInput) { input.State = "" },
		},
		{
			name:   "missing postal code",
			mutate: func(input *models.AddressInput) { input.PostalCode = "" },
		},
	}

	service := newAddressService()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validAddressInput()
			tc.mutate(&input)

			_, err := service.AddAddress(context.Background(), testBuyer, input)
			if !models.IsKind(err, models.ValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	t.Parallel()

	service := newAddressService()
	ctx := context.Background()

	firstInput := validAddressInput()
	firstInput.IsDefault = true
	first, err := service.AddAddress(ctx, testBuyer, firstInput)
	if err != nil {
		t.Fatalf("AddAddress returned error: %v", err)
	}

	secondInput := validAddressInput()
	secondInput.Label = "Armazém"
	secondInput.IsDefault = true
	second, err := service.AddAddress(ctx, testBuyer, secondInput)
	if err != nil {
		t.Fatalf("AddAddress returned error: %v", err)
	}

	addresses, err := service.FetchAddresses(ctx, testBuyer)
	if err != nil {
		t.Fatalf("FetchAddresses returned error: %v", err)
	}
	if len(addresses) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(addresses))
	}

	defaults := 0
	for _, address := range addresses {
		if address.IsDefault {
			defaults++
			if address.ID != second.ID {
				t.Fatalf("expected %q to be default, got %q", second.ID, address.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default address, got %d", defaults)
	}

	// Адрес по умолчанию отдается первым в списке.
	if !addresses[0].IsDefault {
		t.Fatal("expected the default address to come first")
	}

	// Смена основного адреса снимает признак с прежнего.
	if _, err = service.SetDefaultAddress(ctx, testBuyer, first.ID); err != nil {
		t.Fatalf("SetDefaultAddress returned error: %v", err)
	}
	addresses, err = service.FetchAddresses(ctx, testBuyer)
	if err != nil {
		t.Fatalf("FetchAddresses returned error: %v", err)
	}
	for _, address := range addresses {
		if address.IsDefault != (address.ID == first.ID) {
			t.Fatalf("unexpected default flag on %q", address.ID)
		}
	}
}

func TestDeleteDefaultAddressLeavesNoDefault(t *testing.T) {
	t.Parallel()

	service := newAddressService()
	ctx := context.Background()

	input := validAddressInput()
	input.IsDefault = true
	created, err := service.AddAddress(ctx, testBuyer, input)
	if err != nil {
		t.Fatalf("AddAddress returned error: %v", err)
	}
	if _, err = service.AddAddress(ctx, testBuyer, validAddressInput()); err != nil {
		t.Fatalf("AddAddress returned error: %v", err)
	}

	if err = service.DeleteAddress(ctx, testBuyer, created.ID); err != nil {
		t.Fatalf("DeleteAddress returned error: %v", err)
	}

	addresses, err := service.FetchAddresses(ctx, testBuyer)
	if err != nil {
		t.Fatalf("FetchAddresses returned error: %v", err)
	}
	if len(addresses) != 1 {
		t.Fatalf("expected 1 address, got %d", len(addresses))
	}
	if addresses[0].IsDefault {
		t.Fatal("expected no default address after deleting the default one")
	}
}

func TestDeleteAddressScopedToOwner(t *testing.T) {
	t.Parallel()

	service := newAddressService()
	ctx := context.Background()

	created, err := service.AddAddress(ctx, testBuyer, validAddressInput())
	if err != nil {
		t.Fatalf("AddAddress returned error: %v", err)
	}

	stranger := models.UserProfile{ID: "buyer-2", FullName: "Outro Produtor", Role: models.Buyer}
	err = service.DeleteAddress(ctx, stranger, created.ID)
	if !models.IsKind(err, models.NotFoundError) {
		t.Fatalf("expected not found error for foreign owner, got %v", err)
	}

	_, err = service.SetDefaultAddress(ctx, stranger, created.ID)
	if !models.IsKind(err, models.NotFoundError) {
		t.Fatalf("expected not found error for foreign owner, got %v", err)
	}
}
