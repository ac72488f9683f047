package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/storage"
)

type fakeStorage struct {
	files     map[string][]byte
	uploadErr error
	deleted   []string
}

func (f *fakeStorage) UploadFile(_ context.Context, folder string, data []byte, filename string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := fmt.Sprintf("http://files/%s/%s", folder, filename)
	f.files[url] = data
	return url, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	delete(f.files, fileURL)
	return nil
}

func (f *fakeStorage) GetPresignedURL(_ context.Context, fileURL string, _ time.Duration) (string, error) {
	return fileURL + "?signature=x", nil
}

func TestEstablishmentCreateAndUpdate(t *testing.T) {
	w := newWorld()
	svc := NewEstablishmentService(w.establishments, w.access, nil, zap.NewNop())
	ctx := context.Background()

	e, err := svc.Create(ctx, w.owner, domain.CreateEstablishmentDTO{Name: "  Studio <b>Nove</b> ", Phone: "+55 (11) 3333-4444"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Name != "Studio bNove/b" || e.OwnerID != w.owner.UserID || e.Phone != "+551133334444" {
		t.Fatalf("unexpected establishment %+v", e)
	}

	mine, err := svc.ListMine(ctx, w.owner)
	if err != nil || len(mine) != 2 {
		t.Fatalf("list mine: %v, %d items", err, len(mine))
	}

	name := "Studio Dez"
	if _, err := svc.Update(ctx, w.stranger, e.ID, domain.UpdateEstablishmentDTO{Name: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	updated, err := svc.Update(ctx, w.owner, e.ID, domain.UpdateEstablishmentDTO{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name = %q", updated.Name)
	}

	if _, err := svc.Create(ctx, w.owner, domain.CreateEstablishmentDTO{Name: "   "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if _, err := svc.GetByID(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestEstablishmentLogo(t *testing.T) {
	w := newWorld()
	files := &fakeStorage{files: map[string][]byte{}}
	svc := NewEstablishmentService(w.establishments, w.access, files, zap.NewNop())
	ctx := context.Background()

	first, err := svc.UploadLogo(ctx, w.owner, w.establishmentID, []byte("png"), "a.png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	oldURL := *first.LogoURL

	second, err := svc.UploadLogo(ctx, w.owner, w.establishmentID, []byte("png"), "b.png")
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if *second.LogoURL == oldURL {
		t.Fatal("logo url must change")
	}
	if len(files.deleted) != 1 || files.deleted[0] != oldURL {
		t.Fatalf("old logo must be deleted, deleted %v", files.deleted)
	}

	url, err := svc.GetLogoURL(ctx, w.establishmentID)
	if err != nil {
		t.Fatalf("logo url: %v", err)
	}
	if url != *second.LogoURL+"?signature=x" {
		t.Fatalf("unexpected url %q", url)
	}

	if _, err := svc.UploadLogo(ctx, w.stranger, w.establishmentID, []byte("png"), "c.png"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	files.uploadErr = fmt.Errorf("%w: файл не является изображением", storage.ErrInvalidFile)
	if _, err := svc.UploadLogo(ctx, w.owner, w.establishmentID, []byte("txt"), "c.txt"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestEstablishmentLogo_NoStorage(t *testing.T) {
	w := newWorld()
	svc := NewEstablishmentService(w.establishments, w.access, nil, zap.NewNop())

	if _, err := svc.UploadLogo(context.Background(), w.owner, w.establishmentID, []byte("png"), "a.png"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
}

func TestCatalogAndEmployees(t *testing.T) {
	w := newWorld()
	catalog := NewCatalogService(w.services, w.access, zap.NewNop())
	employees := NewEmployeeService(w.employees, w.access, zap.NewNop())
	ctx := context.Background()

	for _, minutes := range []int{0, 4, 481} {
		if _, err := catalog.Create(ctx, w.owner, w.establishmentID, domain.CreateServiceDTO{Name: "Barba", DurationMinutes: minutes}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%d minutes: want ErrValidation, got %v", minutes, err)
		}
	}

	svc, err := catalog.Create(ctx, w.owner, w.establishmentID, domain.CreateServiceDTO{Name: "Barba", DurationMinutes: 45, Price: 30})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if err := catalog.Deactivate(ctx, w.stranger, svc.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := catalog.Deactivate(ctx, w.owner, svc.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	active, err := catalog.List(ctx, w.establishmentID, true)
	if err != nil || len(active) != 1 {
		t.Fatalf("active services: %v, %d items", err, len(active))
	}

	emp, err := employees.Create(ctx, w.owner, w.establishmentID, domain.CreateEmployeeDTO{Name: "carlos  souza"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if emp.Name != "Carlos Souza" {
		t.Fatalf("name = %q", emp.Name)
	}
	if _, err := employees.Create(ctx, w.stranger, w.establishmentID, domain.CreateEmployeeDTO{Name: "Eve"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := employees.Delete(ctx, w.owner, emp.ID); err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	if _, err := employees.GetByID(ctx, emp.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
