package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/myusers-admin/internal/models"
)

// Postgres acessa a tabela diretamente via gorm (STORE_DRIVER=postgres).
type Postgres struct {
	db    *gorm.DB
	table string
}

// NewPostgres cria o store sobre uma conexão gorm já aberta.
func NewPostgres(gdb *gorm.DB, table string) *Postgres {
	if table == "" {
		table = models.User{}.TableName()
	}
	return &Postgres{db: gdb, table: table}
}

func (p *Postgres) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	tx := p.db.WithContext(ctx).Table(p.table)
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: !q.Ascending})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	users := []models.User{}
	if err := tx.Find(&users).Error; err != nil {
		return nil, wrap(OpList, err)
	}
	return users, nil
}

func (p *Postgres) Insert(ctx context.Context, d models.Draft) (models.User, error) {
	user := models.User{}.Apply(payload(d))
	if err := p.db.WithContext(ctx).Table(p.table).Create(&user).Error; err != nil {
		return models.User{}, wrap(OpInsert, err)
	}
	return user, nil
}

func (p *Postgres) Update(ctx context.Context, id int64, d models.Draft) error {
	res := p.db.WithContext(ctx).Table(p.table).Where("id = ?", id).Updates(d.Columns())
	if res.Error != nil {
		return wrap(OpUpdate, res.Error)
	}
	if res.RowsAffected == 0 {
		return &Error{Op: OpUpdate, Message: fmt.Sprintf("user %d not found", id)}
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id int64) error {
	res := p.db.WithContext(ctx).Table(p.table).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return wrap(OpDelete, res.Error)
	}
	if res.RowsAffected == 0 {
		return &Error{Op: OpDelete, Message: fmt.Sprintf("user %d not found", id)}
	}
	return nil
}
