package estate

type CreateEstateRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

type CreateUnitRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	IsOccupied bool   `json:"isOccupied"`
}

type UpdateUnitRequest struct {
	Identifier string `json:"identifier"`
	IsOccupied *bool  `json:"isOccupied"`
}

type CreateActorRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required,oneof=manager staff resident"`
}
