package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"client_email",
			"transaction_id",
			"booking_id",
			"status",
			"amount",
			"paid_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"client_email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"transaction_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_name": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"bsonType": "string",
			},

			"amount": bson.M{
				"bsonType":         []string{"double", "int", "long", "decimal"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"paid_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
