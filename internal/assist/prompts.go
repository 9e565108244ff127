package assist

import (
	"fmt"
	"strings"
)

const defaultSuggestionCount = 5

func destinationLabel(trip TripContext) string {
	if trip.City != nil && *trip.City != "" {
		return fmt.Sprintf("%s, %s", *trip.City, trip.Country)
	}
	return trip.Country
}

func suggestionCount(trip TripContext) int {
	if trip.NumberOfDays != nil && *trip.NumberOfDays > 0 {
		return *trip.NumberOfDays * 3
	}
	return defaultSuggestionCount
}

func buildSuggestionsPrompt(trip TripContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel planning assistant. Suggest %d activities for a trip to %s.\n",
		suggestionCount(trip), destinationLabel(trip))
	if trip.NumberOfDays != nil {
		fmt.Fprintf(&b, "The trip lasts %d days.\n", *trip.NumberOfDays)
	}
	b.WriteString("For each activity give a short name, one or two sentences of notes, " +
		"an estimated duration, a list of categories, and the best time of day " +
		"(morning, afternoon, or evening). Mix well-known highlights with a few " +
		"local picks. Respond in JSON matching the provided schema.")
	return b.String()
}

func buildAutofillPrompt(req AutofillRequest) string {
	var b strings.Builder
	place := req.Name
	if req.City != nil && *req.City != "" {
		place = fmt.Sprintf("%s in %s, %s", req.Name, *req.City, req.Country)
	} else {
		place = fmt.Sprintf("%s in %s", req.Name, req.Country)
	}
	fmt.Fprintf(&b, "You are a travel planning assistant. Fill in details for the activity %q.\n", place)
	b.WriteString("Provide one or two sentences of practical notes, a list of categories, " +
		"and a suggested start and end time as HH:MM in 24-hour format. " +
		"Respond in JSON matching the provided schema.")
	return b.String()
}

func buildItineraryPrompt(req ItineraryRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel planning assistant. Order the following activities into an optimized itinerary for a trip to %s.\n",
		destinationLabel(req.Trip))
	if req.Trip.NumberOfDays != nil {
		fmt.Fprintf(&b, "The trip lasts %d days.\n", *req.Trip.NumberOfDays)
	}
	b.WriteString("Activities:\n")
	for _, a := range req.Activities {
		fmt.Fprintf(&b, "- id=%s name=%q", a.ID, a.Name)
		if len(a.Categories) > 0 {
			fmt.Fprintf(&b, " categories=%s", strings.Join(a.Categories, ","))
		}
		if a.AvgScore > 0 {
			fmt.Fprintf(&b, " group_score=%.1f", a.AvgScore)
		}
		b.WriteString("\n")
	}
	b.WriteString("Group nearby and thematically similar activities on the same day, " +
		"favor higher group scores earlier in the trip, and explain the reasoning " +
		"for each slot plus the overall plan. Respond in JSON matching the provided schema.")
	return b.String()
}

func buildChatSystemPrompt(trip *TripContext, activities []string) string {
	var b strings.Builder
	b.WriteString("You are a friendly and knowledgeable travel assistant. " +
		"Answer questions about destinations, logistics, food, and culture. " +
		"Keep replies concise and practical.")
	if trip != nil {
		fmt.Fprintf(&b, "\nThe user is planning a trip to %s.", destinationLabel(*trip))
		if trip.NumberOfDays != nil {
			fmt.Fprintf(&b, " The trip lasts %d days.", *trip.NumberOfDays)
		}
	}
	if len(activities) > 0 {
		b.WriteString("\nActivities already planned: ")
		b.WriteString(strings.Join(activities, "; "))
		b.WriteString(".")
	}
	return b.String()
}
