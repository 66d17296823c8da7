package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"bookings",
			"updated_at",
		},
		"additionalProperties": false,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"bookings": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":             "object",
					"required":             []string{"id", "start_time", "end_time"},
					"additionalProperties": false,
					"properties": bson.M{
						"id": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 128,
						},
						"start_time": bson.M{
							"bsonType": "date",
						},
						"end_time": bson.M{
							"bsonType": "date",
						},
					},
				},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
