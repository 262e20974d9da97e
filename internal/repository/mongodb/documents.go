package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"deepchat/internal/domain/models"
)

type messageDoc struct {
	Role      string `bson:"role"`
	Content   string `bson:"content"`
	TimeStamp int64  `bson:"timeStamp"`
}

type chatDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"userId"`
	Name      string        `bson:"name"`
	Messages  []messageDoc  `bson:"message"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	ImageURL  string    `bson:"image_url,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toMessageDocs(msgs []models.Message) []messageDoc {
	docs := make([]messageDoc, len(msgs))
	for i, m := range msgs {
		docs[i] = messageDoc{Role: string(m.Role), Content: m.Content, TimeStamp: m.TimeStamp}
	}
	return docs
}

func (d *chatDoc) toModel() *models.Chat {
	msgs := make([]models.Message, len(d.Messages))
	for i, m := range d.Messages {
		msgs[i] = models.Message{Role: models.Role(m.Role), Content: m.Content, TimeStamp: m.TimeStamp}
	}
	return &models.Chat{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Name:      d.Name,
		Messages:  msgs,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
