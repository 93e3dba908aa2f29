package domain

import "github.com/google/uuid"

// ValidID informa si id tiene la forma canónica de UUID (36 caracteres con guiones),
// que es la de todas las claves primarias.
func ValidID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}
