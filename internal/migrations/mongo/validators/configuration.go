package validators

import "go.mongodb.org/mongo-driver/bson"

var SeasonValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"name",
			"start",
			"end",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"start": boundarySchema,
			"end":   boundarySchema,

			"advance_booking_days": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"max_nights": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},
		},
	},
}

var boundarySchema = bson.M{
	"bsonType": "object",
	"required": []string{"month", "day"},
	"properties": bson.M{
		"month": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  12,
		},
		"day": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  31,
		},
	},
}

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"name",
			"capacity_max",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"capacity_max": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"min_billable_occupancy": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}

var PricingRuleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"mode",
			"basis",
			"amount_cents",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"mode": bson.M{
				"enum": []string{"room", "buyout"},
			},

			"basis": bson.M{
				"enum": []string{"per_person_per_night", "buyout_fixed"},
			},

			"amount_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"children_amount_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},
		},
	},
}

var BlackoutValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"start_date",
			"end_date",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},
		},
	},
}
