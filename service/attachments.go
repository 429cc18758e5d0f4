package service

import (
	"obras/models"

	"gorm.io/gorm"
)

// DeleteInvoicesFor remove as notas fiscais dos donos informados. O dono é
// polimórfico e não tem FK, então deve rodar na mesma transação que apaga o dono.
func DeleteInvoicesFor(tx *gorm.DB, kind models.OwnerKind, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("tipo_dono = ? AND dono_id IN ?", kind, ids).Delete(&models.Invoice{}).Error
}

// DeleteSubWorkInvoices notas da empreitada e de todas as suas parcelas
func DeleteSubWorkInvoices(tx *gorm.DB, subWorkIDs ...uint) error {
	if len(subWorkIDs) == 0 {
		return nil
	}
	var paymentIDs []uint
	if err := tx.Model(&models.SubWorkPayment{}).
		Where("empreitada_id IN ?", subWorkIDs).
		Pluck("id", &paymentIDs).Error; err != nil {
		return err
	}
	if err := DeleteInvoicesFor(tx, models.OwnerSubWorkPayment, paymentIDs...); err != nil {
		return err
	}
	return DeleteInvoicesFor(tx, models.OwnerSubWork, subWorkIDs...)
}
