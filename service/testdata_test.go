package service

import "github.com/crosti/buyerform/model"

// completeProfile answers every required question.
func completeProfile() *model.BuyerProfile {
	return &model.BuyerProfile{
		Name:                   "Jo",
		Mobile:                 "021 555 0100",
		Email:                  "jo@example.com",
		Type:                   "Cafe,Bar",
		PreferredLocation:      "Central Auckland,Other",
		PreferredLocationOther: "Waiheke",
		Budget:                 "$100k–$300k",
		Experience:             "Yes",
		CurrentJob:             "Manager",
		Capital:                "$100k–$300k",
		FinanceReady:           "No",
		Motivation:             "Lifestyle Change",
		IdealDay:               "Hands-on Management",
		NextStep:               "Help me shortlist",
		FinalNotes:             "Weekends off please",
	}
}
