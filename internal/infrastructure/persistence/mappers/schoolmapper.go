package mappers

import (
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
)

type SchoolMapper interface {
	ToEntity(model *models.SchoolModel) *school.School
	ToModel(entity *school.School) *models.SchoolModel
	AccountToEntity(model *models.AccountModel) *school.Account
	AccountToModel(entity *school.Account) *models.AccountModel
}

type SchoolMapperImpl struct{}

func NewSchoolMapper() SchoolMapper {
	return &SchoolMapperImpl{}
}

func (m *SchoolMapperImpl) ToEntity(model *models.SchoolModel) *school.School {
	if model == nil {
		return nil
	}
	return school.ReconstructSchool(
		model.ID,
		model.Name,
		model.Address,
		model.ContactName,
		model.WebhookURL,
		biztime.FromMillis(model.CreatedAt),
		biztime.FromMillis(model.UpdatedAt),
	)
}

func (m *SchoolMapperImpl) ToModel(entity *school.School) *models.SchoolModel {
	if entity == nil {
		return nil
	}
	return &models.SchoolModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		Address:     entity.Address(),
		ContactName: entity.ContactName(),
		WebhookURL:  entity.WebhookURL(),
		CreatedAt:   biztime.ToMillis(entity.CreatedAt()),
		UpdatedAt:   biztime.ToMillis(entity.UpdatedAt()),
	}
}

func (m *SchoolMapperImpl) AccountToEntity(model *models.AccountModel) *school.Account {
	return &school.Account{
		ID:          model.ID,
		SchoolID:    model.SchoolID,
		Role:        school.Role(model.Role),
		DisplayName: model.DisplayName,
		Email:       model.Email,
		CreatedAt:   biztime.FromMillis(model.CreatedAt),
	}
}

func (m *SchoolMapperImpl) AccountToModel(entity *school.Account) *models.AccountModel {
	return &models.AccountModel{
		ID:          entity.ID,
		SchoolID:    entity.SchoolID,
		Role:        string(entity.Role),
		DisplayName: entity.DisplayName,
		Email:       entity.Email,
		CreatedAt:   biztime.ToMillis(entity.CreatedAt),
	}
}
