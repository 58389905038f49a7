package repository

import (
	"bookshelf/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// deleteBooksWhere removes the matching books and every rating on them.
// It must run inside a transaction.
func deleteBooksWhere(tx *gorm.DB, query string, args ...interface{}) error {
	var ids []int64
	if err := tx.Model(&models.Book{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("book_id IN ?", ids).Delete(&models.Rating{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Book{}).Error
}

// deleteOne deletes a single row by primary key and reports
// gorm.ErrRecordNotFound when nothing matched.
func deleteOne(tx *gorm.DB, model interface{}, id interface{}) error {
	result := tx.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
