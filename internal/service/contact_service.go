package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

// ContactService owns CRM contact CRUD with role-scoped visibility: sales and
// elevated roles work the whole book, everyone else only their own contacts.
type ContactService interface {
	Create(ctx context.Context, actor Actor, contact *model.Contact) (*model.Contact, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context, actor Actor, filter repository.ContactFilter) ([]model.Contact, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, updated *model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type contactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new contact service.
func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func contactScopeAll(actor Actor) bool {
	return actor.CanSeeAll() || actor.Role == model.RoleSales
}

func (s *contactService) Create(ctx context.Context, actor Actor, contact *model.Contact) (*model.Contact, error) {
	contact.ID = uuid.New()
	contact.UserID = actor.ID
	if contact.Status == "" {
		contact.Status = model.ContactStatusLead
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrContactNotFound
		}
		return nil, err
	}
	if !contactScopeAll(actor) && contact.UserID != actor.ID {
		return nil, domerr.ErrForbidden
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, actor Actor, filter repository.ContactFilter) ([]model.Contact, error) {
	if !contactScopeAll(actor) {
		filter.UserID = &actor.ID
	}
	return s.contactRepo.List(ctx, filter)
}

func (s *contactService) Update(ctx context.Context, actor Actor, id uuid.UUID, updated *model.Contact) (*model.Contact, error) {
	contact, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	contact.Name = updated.Name
	contact.Email = updated.Email
	contact.Phone = updated.Phone
	contact.Company = updated.Company
	if updated.Status != "" {
		contact.Status = updated.Status
	}
	contact.Notes = updated.Notes
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, id)
}
