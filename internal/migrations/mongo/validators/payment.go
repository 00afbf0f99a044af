package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"method",
			"amount",
			"status",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"method": bson.M{
				"bsonType": "string",
				"enum":     []string{"CARD", "PAY_ON_ARRIVAL", "BANK_TRANSFER"},
			},

			"amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"fee": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"SUCCESS", "PENDING", "FAILED"},
			},

			"transaction_ref": bson.M{
				"bsonType": "string",
			},

			"paid_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
