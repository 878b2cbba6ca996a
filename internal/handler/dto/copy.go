package dto

import (
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// copyFields переносит одноименные поля сущности в DTO.
// Ошибка copier логируется: ответ все равно собирается из явно заполняемых полей.
func copyFields(dst, src interface{}, kind string) error {
	if err := copier.Copy(dst, src); err != nil {
		log.Warn().Err(err).Str("component", "dto").Str("kind", kind).Msg("failed to copy entity fields")
		return err
	}
	return nil
}
