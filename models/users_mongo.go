package models

import (
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"winterfell/utils"
)

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) UserRepository {
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) FindByEmail(email string) (*User, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var u User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByID(id string) (*User, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var u User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) ListNonAdmin() ([]User, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"role": bson.M{"$ne": RoleAdmin}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []User{}
	for cur.Next(ctx) {
		var u User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

// Insert hashes the password, defaults the role to alumni and persists the
// user. The unique index on email is the real uniqueness guarantee; callers
// may pre-check FindByEmail for a friendlier message, but a racing duplicate
// still comes back as ErrEmailTaken from here.
func (r *mongoUserRepo) Insert(u *User) error {
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleAlumni
	}

	ctx, cancel := opCtx()
	defer cancel()

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *mongoUserRepo) Update(id string, upd UserUpdate) error {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.GradYear != nil {
		set["gradYear"] = *upd.GradYear
	}
	if upd.PrefEventCategory != nil {
		set["prefEventCategory"] = *upd.PrefEventCategory
	}
	if upd.Country != nil {
		set["country"] = *upd.Country
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := opCtx()
	defer cancel()

	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Delete removes the user physically. Events referencing the user keep their
// stale organizer/participant ids; nothing cascades.
func (r *mongoUserRepo) Delete(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *mongoUserRepo) VerifyPassword(candidate, hash string) bool {
	return utils.CheckPasswordHash(candidate, hash)
}
