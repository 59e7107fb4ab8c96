package service

// User-facing feedback and error texts.
const (
	msgAddOneIngredient     = "Please add at least one ingredient."
	msgGenerationFailed     = "Failed to generate recipe. Please try again."
	msgGenerationInProgress = "A recipe is already being generated."
	msgNoRecipeToSave       = "No recipe to save."
	msgImageFailed          = "Failed to analyze image."
	msgAnalyzingImage       = "Analyzing image..."
	msgAddedIngredients     = "Added ingredients"
	msgNoIngredientsFound   = "No ingredients found."
	msgListening            = "Listening..."
	msgGenericError         = "An error occurred"
	msgSaveFailed           = "Save failed. Your changes may not be kept."
	msgProfileUpdated       = "Profile updated successfully."
	msgPreferencesSaved     = "Preferences saved."
	msgAccountDeleted       = "Your account has been deleted."
	msgConfirmMismatch      = "Confirmation text does not match."
	msgDataCleared          = "All local data has been cleared."
	msgFillAllFields        = "Please fill in all fields."
	msgPasswordsNoMatch     = "New passwords do not match."
	msgPasswordLength       = "Password must be at least 8 characters long."
	msgPasswordChanged      = "Password changed successfully."
	msgTwoFAEnabled         = "Two-factor authentication enabled."
	msgTwoFADisabled        = "Two-factor authentication disabled."
	msgRecipeSaved          = "Recipe saved to your cookbook."
	msgRecipeDeleted        = "Recipe removed from your cookbook."
	msgFavoriteAdded        = "Added to favorites."
	msgFavoriteRemoved      = "Removed from favorites."
)
