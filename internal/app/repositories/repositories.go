package repositories

import (
	"github.com/oussamab/maktaba/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	BookRepository          *BookRepository
	CategoryRepository      *CategoryRepository
	AuthorRepository        *AuthorRepository
	BorrowRepository        *BorrowRepository
	PresenceRepository      *PresenceRepository
	SearchHistoryRepository *SearchHistoryRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		BookRepository:          NewBookRepository(database),
		CategoryRepository:      NewCategoryRepository(database.Pool),
		AuthorRepository:        NewAuthorRepository(database.Pool),
		BorrowRepository:        NewBorrowRepository(database),
		PresenceRepository:      NewPresenceRepository(database.Pool),
		SearchHistoryRepository: NewSearchHistoryRepository(database.Pool),
	}
}
