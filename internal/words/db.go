package words

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Word is the row shape of the corpus table. The table is static input data;
// the server only ever reads it, once, at startup.
type Word struct {
	ID   uint   `gorm:"primaryKey"`
	Text string `gorm:"column:text"`
}

// DBSource loads the corpus from a postgres `words` table.
type DBSource struct {
	DSN string
}

func (s DBSource) Load() ([]string, error) {
	db, err := gorm.Open(postgres.Open(s.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	var rows []Word
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	corpus := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Text != "" {
			corpus = append(corpus, row.Text)
		}
	}
	return corpus, nil
}
