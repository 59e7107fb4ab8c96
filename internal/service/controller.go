package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/windoze95/ingredai-api/internal/ingredient"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/metrics"
	"github.com/windoze95/ingredai-api/internal/models"
	"github.com/windoze95/ingredai-api/internal/repository"
	"github.com/windoze95/ingredai-api/internal/voice"
	"go.uber.org/zap"
)

// Feedback display durations.
const (
	DefaultFeedbackDuration = 4 * time.Second
	ImageFeedbackDuration   = 15 * time.Second
)

// ErrPersistence is returned when a change could not be written to the
// store. The in-memory state keeps the change.
var ErrPersistence = errors.New("failed to persist changes")

// State is a snapshot of one workspace as the client renders it.
type State struct {
	Ingredients      []models.UserIngredient `json:"ingredients"`
	Recipe           *models.Recipe          `json:"recipe"`
	IsLoading        bool                    `json:"isLoading"`
	IsAnalyzingImage bool                    `json:"isAnalyzingImage"`
	IsListening      bool                    `json:"isListening"`
	Error            string                  `json:"error,omitempty"`
	Feedback         *voice.Feedback         `json:"feedback,omitempty"`
	Theme            models.Theme            `json:"theme"`
	IsAuthenticated  bool                    `json:"isAuthenticated"`
	Preferences      models.Preferences      `json:"preferences"`
	TwoFactorEnabled bool                    `json:"twoFactorEnabled"`
	IsSaved          bool                    `json:"isSaved"`
	IsFavorited      bool                    `json:"isFavorited"`
}

// Deps are the collaborators shared by every workspace controller.
type Deps struct {
	Repo     repository.WorkspaceRepo
	Recipes  *RecipeService
	Images   *ImageService
	Profiles *ProfileService
	Now      func() time.Time
}

// Controller owns the state of one workspace and applies every user
// operation to it. It is safe for concurrent use.
type Controller struct {
	Workspace string
	deps      Deps

	mu            sync.Mutex
	ingredients   *ingredient.Store
	current       *models.Recipe
	loading       bool
	analyzing     bool
	listening     bool
	errMsg        string
	feedback      *voice.Feedback
	feedbackUntil time.Time
	theme         models.Theme
	authenticated bool
	prefs         models.Preferences
	twoFactor     bool
	onChange      []func(State)
}

// NewController loads the persisted state of workspace. Read failures are
// logged and fall back to defaults.
func NewController(ctx context.Context, workspace string, deps Deps) *Controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Profiles == nil {
		deps.Profiles = NewProfileService()
	}
	c := &Controller{
		Workspace:   workspace,
		deps:        deps,
		ingredients: ingredient.NewStore(models.DefaultIngredients()),
		theme:       models.ThemeLight,
		prefs:       (*models.UserProfile)(nil).Preferences(),
	}
	c.load(ctx)
	return c
}

func (c *Controller) log() *zap.Logger {
	return logger.With(zap.String(logger.WorkspaceKey, c.Workspace))
}

func (c *Controller) load(ctx context.Context) {
	theme, err := c.deps.Repo.GetTheme(ctx, c.Workspace)
	if err != nil {
		c.log().Error("failed to load theme", zap.Error(err))
	}
	c.theme = theme

	profile, err := c.deps.Repo.GetProfile(ctx, c.Workspace)
	var notFound repository.NotFoundError
	switch {
	case err == nil:
		c.authenticated = true
		c.prefs = profile.Preferences()
	case !errors.As(err, &notFound):
		c.log().Error("failed to load profile", zap.Error(err))
	}

	twoFactor, err := c.deps.Repo.GetTwoFactor(ctx, c.Workspace)
	if err != nil {
		c.log().Error("failed to load two-factor flag", zap.Error(err))
	}
	c.twoFactor = twoFactor
}

// OnChange registers fn to receive a snapshot after every state change.
// fn is called without the controller lock held.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

func (c *Controller) notify(ctx context.Context) {
	state := c.State(ctx)
	c.mu.Lock()
	listeners := append([]func(State){}, c.onChange...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(state)
	}
}

// State returns a snapshot of the workspace. Expired feedback reads as none.
func (c *Controller) State(ctx context.Context) State {
	c.mu.Lock()
	s := State{
		Ingredients:      c.ingredients.List(),
		Recipe:           c.current.Clone(),
		IsLoading:        c.loading,
		IsAnalyzingImage: c.analyzing,
		IsListening:      c.listening,
		Error:            c.errMsg,
		Theme:            c.theme,
		IsAuthenticated:  c.authenticated,
		Preferences:      c.prefs,
		TwoFactorEnabled: c.twoFactor,
	}
	if c.feedback != nil && c.deps.Now().Before(c.feedbackUntil) {
		fb := *c.feedback
		s.Feedback = &fb
	}
	current := c.current
	c.mu.Unlock()

	if current != nil {
		s.IsSaved = containsRecipe(c.recipesOrEmpty(ctx, repository.SlotSaved), current)
		s.IsFavorited = containsRecipe(c.recipesOrEmpty(ctx, repository.SlotFavorites), current)
	}
	return s
}

// showFeedback replaces the banner. A nil fb clears it. Callers hold c.mu.
func (c *Controller) showFeedback(fb *voice.Feedback, d time.Duration) {
	c.feedback = fb
	c.feedbackUntil = c.deps.Now().Add(d)
}

// say shows msg for the default duration. Callers hold c.mu.
func (c *Controller) say(t voice.FeedbackType, msg string) {
	c.showFeedback(&voice.Feedback{Message: msg, Type: t}, DefaultFeedbackDuration)
}

// persistFailed logs a write failure and tells the user. Callers hold c.mu.
func (c *Controller) persistFailed(what string, err error) error {
	c.log().Error("failed to persist "+what, zap.Error(err))
	c.say(voice.FeedbackError, msgSaveFailed)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, what, err)
}

// recipes reads a persisted recipe list. Callers that write the list back
// must not continue after an error.
func (c *Controller) recipes(ctx context.Context, slot repository.Slot) ([]models.Recipe, error) {
	return c.deps.Repo.GetRecipes(ctx, c.Workspace, slot)
}

// recipesOrEmpty reads a recipe list for display, falling back to empty.
func (c *Controller) recipesOrEmpty(ctx context.Context, slot repository.Slot) []models.Recipe {
	list, err := c.recipes(ctx, slot)
	if err != nil {
		c.log().Error("failed to load recipes", zap.String("slot", string(slot)), zap.Error(err))
		return nil
	}
	return list
}

// readFailed logs a read that a write depends on and tells the user.
// Callers hold c.mu.
func (c *Controller) readFailed(what string, err error) error {
	c.log().Error("failed to load "+what+" before writing", zap.Error(err))
	c.say(voice.FeedbackError, msgSaveFailed)
	return fmt.Errorf("%w: loading %s: %w", ErrPersistence, what, err)
}

func containsRecipe(list []models.Recipe, r *models.Recipe) bool {
	return indexOfRecipe(list, r) >= 0
}

func indexOfRecipe(list []models.Recipe, r *models.Recipe) int {
	for i := range list {
		if list[i].SameAs(r) {
			return i
		}
	}
	return -1
}

func findByKey(list []models.Recipe, key string) *models.Recipe {
	for i := range list {
		if list[i].MatchesKey(key) {
			return &list[i]
		}
	}
	return nil
}

// --- Ingredients ---

// Ingredients returns the current ingredient list.
func (c *Controller) Ingredients() []models.UserIngredient {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ingredients.List()
}

// AddIngredient appends one ingredient.
func (c *Controller) AddIngredient(ctx context.Context, ing models.UserIngredient) {
	c.mu.Lock()
	ing.Name = strings.TrimSpace(ing.Name)
	c.ingredients.Add(ing)
	c.mu.Unlock()
	c.notify(ctx)
}

// UpdateIngredient replaces the ingredient at index.
func (c *Controller) UpdateIngredient(ctx context.Context, index int, ing models.UserIngredient) error {
	c.mu.Lock()
	ing.Name = strings.TrimSpace(ing.Name)
	err := c.ingredients.Update(index, ing)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(ctx)
	return nil
}

// RemoveIngredient deletes the ingredient at index.
func (c *Controller) RemoveIngredient(ctx context.Context, index int) error {
	c.mu.Lock()
	err := c.ingredients.Remove(index)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(ctx)
	return nil
}

// ReplaceIngredients swaps the whole list.
func (c *Controller) ReplaceIngredients(ctx context.Context, list []models.UserIngredient) {
	c.mu.Lock()
	c.ingredients.ReplaceAll(list)
	c.mu.Unlock()
	c.notify(ctx)
}

// ClearIngredients empties the list.
func (c *Controller) ClearIngredients(ctx context.Context) {
	c.mu.Lock()
	c.ingredients.Clear()
	c.mu.Unlock()
	c.notify(ctx)
}

// --- Recipe generation ---

// GenerateRecipe runs the recipe pipeline for the current ingredients and
// preferences and shows the result. Only one request per workspace runs at
// a time. A result whose ctx was cancelled is dropped.
func (c *Controller) GenerateRecipe(ctx context.Context) (*models.Recipe, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	if c.ingredients.Len() == 0 {
		c.errMsg = msgAddOneIngredient
		c.mu.Unlock()
		c.notify(ctx)
		return nil, ErrNoIngredients
	}
	ingredients := c.ingredients.List()
	prefs := c.prefs
	c.loading = true
	c.errMsg = ""
	c.current = nil
	c.mu.Unlock()
	c.notify(ctx)

	recipe, err := c.deps.Recipes.GenerateRecipe(ctx, ingredients, prefs)

	c.mu.Lock()
	c.loading = false
	switch {
	case ctx.Err() != nil:
		c.log().Info("dropping recipe for cancelled request", zap.Error(ctx.Err()))
		recipe, err = nil, ctx.Err()
	case err != nil:
		c.log().Error("recipe generation failed", zap.Error(err))
		c.errMsg = msgGenerationFailed
	default:
		c.current = recipe
	}
	c.mu.Unlock()
	c.notify(context.WithoutCancel(ctx))

	if recipe == nil {
		return nil, err
	}
	return recipe.Clone(), nil
}

// AddFromImage identifies ingredients in a photo and adds the ones not yet
// listed. It returns every identified name.
func (c *Controller) AddFromImage(ctx context.Context, imageData []byte, mimeType string) ([]string, error) {
	c.mu.Lock()
	c.analyzing = true
	c.errMsg = ""
	c.showFeedback(&voice.Feedback{Message: msgAnalyzingImage, Type: voice.FeedbackInfo}, ImageFeedbackDuration)
	c.mu.Unlock()
	c.notify(ctx)

	names, err := c.deps.Images.AnalyzeImage(ctx, imageData, mimeType)

	c.mu.Lock()
	c.analyzing = false
	switch {
	case err != nil:
		c.log().Error("image analysis failed", zap.Error(err))
		c.errMsg = msgImageFailed
		c.showFeedback(nil, 0)
	case len(names) > 0:
		c.ingredients.AddMany(names, true)
		c.say(voice.FeedbackSuccess, msgAddedIngredients+": "+strings.Join(names, ", "))
	default:
		c.say(voice.FeedbackInfo, msgNoIngredientsFound)
	}
	c.mu.Unlock()
	c.notify(context.WithoutCancel(ctx))

	return names, err
}

// Busy reports whether a provider call is running for the workspace.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading || c.analyzing
}

// --- Current recipe, cookbook and favorites ---

// CurrentRecipe returns a copy of the displayed recipe, or nil.
func (c *Controller) CurrentRecipe() *models.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// SavedRecipes returns the cookbook.
func (c *Controller) SavedRecipes(ctx context.Context) []models.Recipe {
	return c.recipesOrEmpty(ctx, repository.SlotSaved)
}

// FavoriteRecipes returns the favorites list.
func (c *Controller) FavoriteRecipes(ctx context.Context) []models.Recipe {
	return c.recipesOrEmpty(ctx, repository.SlotFavorites)
}

// SaveCurrentRecipe adds the displayed recipe to the cookbook. It reports
// false when the recipe was already saved.
func (c *Controller) SaveCurrentRecipe(ctx context.Context) (bool, error) {
	c.mu.Lock()
	saved, err := c.saveCurrentLocked(ctx)
	if saved {
		c.say(voice.FeedbackSuccess, msgRecipeSaved)
	}
	c.mu.Unlock()
	c.notify(ctx)
	return saved, err
}

func (c *Controller) saveCurrentLocked(ctx context.Context) (bool, error) {
	if c.current == nil {
		return false, ErrNoRecipe
	}
	list, err := c.recipes(ctx, repository.SlotSaved)
	if err != nil {
		return false, c.readFailed("saved recipes", err)
	}
	if containsRecipe(list, c.current) {
		return false, nil
	}
	list = append(list, *c.current.Clone())
	if err := c.deps.Repo.SaveRecipes(ctx, c.Workspace, repository.SlotSaved, list); err != nil {
		return false, c.persistFailed("saved recipes", err)
	}
	return true, nil
}

// DeleteSaved removes the cookbook entry matching key (id or name). Deleting
// a missing entry is a no-op.
func (c *Controller) DeleteSaved(ctx context.Context, key string) error {
	c.mu.Lock()
	list, err := c.recipes(ctx, repository.SlotSaved)
	if err != nil {
		err = c.readFailed("saved recipes", err)
		c.mu.Unlock()
		c.notify(ctx)
		return err
	}
	kept := list[:0]
	for _, r := range list {
		if !r.MatchesKey(key) {
			kept = append(kept, r)
		}
	}
	if len(kept) != len(list) {
		if werr := c.deps.Repo.SaveRecipes(ctx, c.Workspace, repository.SlotSaved, kept); werr != nil {
			err = c.persistFailed("saved recipes", werr)
		} else {
			c.say(voice.FeedbackInfo, msgRecipeDeleted)
		}
	}
	c.mu.Unlock()
	c.notify(ctx)
	return err
}

// SelectRecipe shows the cookbook or favorites entry matching key.
func (c *Controller) SelectRecipe(ctx context.Context, key string) (*models.Recipe, error) {
	found := findByKey(c.recipesOrEmpty(ctx, repository.SlotSaved), key)
	if found == nil {
		found = findByKey(c.recipesOrEmpty(ctx, repository.SlotFavorites), key)
	}
	if found == nil {
		return nil, repository.NewNotFoundError("Recipe not found")
	}

	c.mu.Lock()
	c.current = found.Clone()
	c.errMsg = ""
	c.mu.Unlock()
	c.notify(ctx)
	return found.Clone(), nil
}

// ToggleCurrentFavorite adds the displayed recipe to favorites, or removes it
// when already there. It reports whether the recipe is now a favorite.
func (c *Controller) ToggleCurrentFavorite(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return false, ErrNoRecipe
	}
	target := c.current.Clone()
	c.mu.Unlock()
	return c.toggleFavorite(ctx, target)
}

// ToggleFavorite toggles the favorites entry for the saved or favorite
// recipe matching key.
func (c *Controller) ToggleFavorite(ctx context.Context, key string) (bool, error) {
	target := findByKey(c.recipesOrEmpty(ctx, repository.SlotFavorites), key)
	if target == nil {
		target = findByKey(c.recipesOrEmpty(ctx, repository.SlotSaved), key)
	}
	if target == nil {
		return false, repository.NewNotFoundError("Recipe not found")
	}
	return c.toggleFavorite(ctx, target)
}

func (c *Controller) toggleFavorite(ctx context.Context, target *models.Recipe) (bool, error) {
	c.mu.Lock()
	list, err := c.recipes(ctx, repository.SlotFavorites)
	if err != nil {
		err = c.readFailed("favorites", err)
		c.mu.Unlock()
		c.notify(ctx)
		return false, err
	}
	nowFavorite := true
	if i := indexOfRecipe(list, target); i >= 0 {
		list = append(list[:i], list[i+1:]...)
		nowFavorite = false
	} else {
		list = append(list, *target.Clone())
	}

	if werr := c.deps.Repo.SaveRecipes(ctx, c.Workspace, repository.SlotFavorites, list); werr != nil {
		err = c.persistFailed("favorites", werr)
	} else if nowFavorite {
		c.say(voice.FeedbackSuccess, msgFavoriteAdded)
	} else {
		c.say(voice.FeedbackInfo, msgFavoriteRemoved)
	}
	c.mu.Unlock()
	c.notify(ctx)
	return nowFavorite, err
}

// SetRating rates the displayed recipe and copies the rating to its
// cookbook and favorites entries.
func (c *Controller) SetRating(ctx context.Context, rating int) (*models.Recipe, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil, ErrNoRecipe
	}
	c.current.Rating = rating
	updated := c.current.Clone()

	var firstErr error
	for _, slot := range []repository.Slot{repository.SlotSaved, repository.SlotFavorites} {
		list, err := c.recipes(ctx, slot)
		if err != nil {
			if firstErr == nil {
				firstErr = c.readFailed(string(slot), err)
			}
			continue
		}
		i := indexOfRecipe(list, updated)
		if i < 0 {
			continue
		}
		list[i] = *updated.Clone()
		if err := c.deps.Repo.SaveRecipes(ctx, c.Workspace, slot, list); err != nil && firstErr == nil {
			firstErr = c.persistFailed(string(slot), err)
		}
	}
	c.mu.Unlock()
	c.notify(ctx)
	return updated, firstErr
}

// --- Theme ---

// ToggleTheme switches between light and dark.
func (c *Controller) ToggleTheme(ctx context.Context) (models.Theme, error) {
	c.mu.Lock()
	theme := c.theme.Toggled()
	err := c.setThemeLocked(ctx, theme)
	c.mu.Unlock()
	c.notify(ctx)
	return theme, err
}

// SetTheme selects theme.
func (c *Controller) SetTheme(ctx context.Context, theme models.Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	c.mu.Lock()
	err := c.setThemeLocked(ctx, theme)
	c.mu.Unlock()
	c.notify(ctx)
	return err
}

func (c *Controller) setThemeLocked(ctx context.Context, theme models.Theme) error {
	c.theme = theme
	if err := c.deps.Repo.SaveTheme(ctx, c.Workspace, theme); err != nil {
		return c.persistFailed("theme", err)
	}
	return nil
}

// --- Voice ---

// ProcessTranscript interprets a final transcript and applies the resulting
// command. A generate command runs the pipeline before returning.
func (c *Controller) ProcessTranscript(ctx context.Context, transcript string) voice.Result {
	c.mu.Lock()
	vctx := voice.Context{Theme: c.theme}
	current := c.current
	if current != nil {
		vctx.HasRecipe = true
		vctx.RecipeName = current.RecipeName
	}
	c.mu.Unlock()
	if current != nil {
		vctx.RecipeAlreadySaved = containsRecipe(c.recipesOrEmpty(ctx, repository.SlotSaved), current)
	}

	res := voice.Interpret(transcript, vctx)
	command := voice.CmdUnrecognized.String()
	if res.Command != nil {
		command = res.Command.Type.String()
	}
	metrics.VoiceCommands.WithLabelValues(command).Inc()
	c.log().Info("voice command", zap.String("command", command))

	c.mu.Lock()
	fb := res.Feedback
	c.showFeedback(&fb, DefaultFeedbackDuration)
	generate := false
	var cmdErr error
	if res.Command != nil {
		switch res.Command.Type {
		case voice.CmdAddIngredients:
			c.ingredients.AddMany(res.Command.Names, true)
		case voice.CmdRemoveIngredients:
			c.ingredients.RemoveByNames(res.Command.Names)
		case voice.CmdClearIngredients:
			c.ingredients.Clear()
		case voice.CmdSetTheme:
			cmdErr = c.setThemeLocked(ctx, res.Command.Theme)
		case voice.CmdSaveCurrentRecipe:
			_, cmdErr = c.saveCurrentLocked(ctx)
		case voice.CmdLogout:
			cmdErr = c.logoutLocked(ctx)
		case voice.CmdGenerateRecipe:
			if c.loading {
				cmdErr = ErrGenerationInProgress
			} else {
				generate = true
			}
		}
	}
	if cmdErr != nil {
		res.Feedback = c.commandFailedLocked(command, cmdErr)
	}
	c.mu.Unlock()
	c.notify(ctx)

	if generate {
		if _, err := c.GenerateRecipe(ctx); err != nil && ctx.Err() == nil {
			c.mu.Lock()
			res.Feedback = c.commandFailedLocked(command, err)
			c.mu.Unlock()
			c.notify(ctx)
		}
	}
	return res
}

// commandFailedLocked logs a voice command that could not be applied and
// replaces the banner with the reason. Callers hold c.mu.
func (c *Controller) commandFailedLocked(command string, err error) voice.Feedback {
	c.log().Warn("voice command failed", zap.String("command", command), zap.Error(err))
	msg := msgSaveFailed
	switch {
	case errors.Is(err, ErrGenerationInProgress):
		msg = msgGenerationInProgress
	case errors.Is(err, ErrNoIngredients):
		msg = msgAddOneIngredient
	case errors.Is(err, ErrNoRecipe):
		msg = msgNoRecipeToSave
	case errors.Is(err, ErrRecipeGeneration):
		msg = msgGenerationFailed
	}
	fb := voice.Feedback{Message: msg, Type: voice.FeedbackError}
	c.showFeedback(&fb, DefaultFeedbackDuration)
	return fb
}

// SetListening records the voice session state. Starting shows the
// listening banner; stopping clears it if it is still shown.
func (c *Controller) SetListening(ctx context.Context, listening bool) {
	c.mu.Lock()
	c.listening = listening
	if listening {
		c.say(voice.FeedbackInfo, msgListening)
	} else if c.feedback != nil && c.feedback.Message == msgListening {
		c.showFeedback(nil, 0)
	}
	c.mu.Unlock()
	c.notify(ctx)
}

// ReportSpeechError shows a recognizer error code.
func (c *Controller) ReportSpeechError(ctx context.Context, code string) {
	c.mu.Lock()
	c.say(voice.FeedbackError, msgGenericError+": "+code)
	c.mu.Unlock()
	c.notify(ctx)
}

// --- Profile ---

// Signup validates and stores a new profile and signs the workspace in.
func (c *Controller) Signup(ctx context.Context, req SignupRequest) (*models.UserProfile, error) {
	if err := c.deps.Profiles.ValidateSignup(req); err != nil {
		return nil, err
	}
	profile := req.Profile()

	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify(ctx)
	}()
	if err := c.deps.Repo.SaveProfile(ctx, c.Workspace, profile); err != nil {
		return nil, c.persistFailed("profile", err)
	}
	c.authenticated = true
	c.prefs = profile.Preferences()
	return profile, nil
}

// Login records username in the stored profile and signs the workspace in.
// No credential is checked.
func (c *Controller) Login(ctx context.Context, username, password string) (*models.UserProfile, error) {
	if err := c.deps.Profiles.ValidateLogin(username, password); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify(ctx)
	}()
	profile := c.profileLocked(ctx)
	profile.Username = strings.TrimSpace(username)
	if err := c.deps.Repo.SaveProfile(ctx, c.Workspace, profile); err != nil {
		return nil, c.persistFailed("profile", err)
	}
	c.authenticated = true
	c.prefs = profile.Preferences()
	return profile, nil
}

// Logout forgets the profile.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	err := c.logoutLocked(ctx)
	c.mu.Unlock()
	c.notify(ctx)
	return err
}

func (c *Controller) logoutLocked(ctx context.Context) error {
	c.authenticated = false
	if err := c.deps.Repo.Remove(ctx, c.Workspace, repository.SlotProfile); err != nil {
		c.log().Error("failed to clear profile on logout", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Profile returns the stored profile, empty when none is stored.
func (c *Controller) Profile(ctx context.Context) *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profileLocked(ctx)
}

func (c *Controller) profileLocked(ctx context.Context) *models.UserProfile {
	profile, err := c.deps.Repo.GetProfile(ctx, c.Workspace)
	if err != nil {
		var notFound repository.NotFoundError
		if !errors.As(err, &notFound) {
			c.log().Error("failed to load profile", zap.Error(err))
		}
		return &models.UserProfile{}
	}
	return profile
}

// UpdateAccount changes the username and email of the stored profile.
func (c *Controller) UpdateAccount(ctx context.Context, username, email string) (*models.UserProfile, error) {
	verr := &ValidationError{}
	if err := c.deps.Profiles.ValidateUsername(username); err != nil {
		verr.add("username", err.Error())
	}
	if err := c.deps.Profiles.ValidateEmail(email); err != nil {
		verr.add("email", err.Error())
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify(ctx)
	}()
	profile := c.profileLocked(ctx)
	profile.Username = strings.TrimSpace(username)
	profile.Email = strings.TrimSpace(email)
	if err := c.deps.Repo.SaveProfile(ctx, c.Workspace, profile); err != nil {
		return nil, c.persistFailed("profile", err)
	}
	c.say(voice.FeedbackSuccess, msgProfileUpdated)
	return profile, nil
}

// DeleteAccount removes the profile, cookbook and favorites once
// confirmation matches DeleteConfirmationText, then logs out.
func (c *Controller) DeleteAccount(ctx context.Context, confirmation string) error {
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify(ctx)
	}()
	if confirmation != DeleteConfirmationText {
		c.say(voice.FeedbackError, msgConfirmMismatch)
		return ErrConfirmationMismatch
	}
	if err := c.deps.Repo.Remove(ctx, c.Workspace, repository.SlotProfile, repository.SlotSaved, repository.SlotFavorites); err != nil {
		return c.persistFailed("account deletion", err)
	}
	c.authenticated = false
	c.say(voice.FeedbackInfo, msgAccountDeleted)
	return nil
}

// UpdatePreferences stores the skill level and dietary preference used for
// every later recipe request.
func (c *Controller) UpdatePreferences(ctx context.Context, prefs models.Preferences) error {
	if err := c.deps.Profiles.ValidatePreferences(prefs); err != nil {
		return err
	}

	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify(ctx)
	}()
	c.prefs = prefs
	profile := c.profileLocked(ctx)
	profile.SkillLevel = prefs.SkillLevel
	profile.DietaryPreference = prefs.DietaryPreference
	if err := c.deps.Repo.SaveProfile(ctx, c.Workspace, profile); err != nil {
		return c.persistFailed("preferences", err)
	}
	c.say(voice.FeedbackSuccess, msgPreferencesSaved)
	return nil
}

// --- Security and data ---

// ChangePassword checks the security form. Nothing is stored. It reports
// whether the change was accepted; the outcome is shown as feedback.
func (c *Controller) ChangePassword(ctx context.Context, pc PasswordChange) bool {
	msg := c.deps.Profiles.ValidatePasswordChange(pc)

	c.mu.Lock()
	if msg != "" {
		c.say(voice.FeedbackError, msg)
	} else {
		c.say(voice.FeedbackSuccess, msgPasswordChanged)
	}
	c.mu.Unlock()
	c.notify(ctx)
	return msg == ""
}

// Toggle2FA flips the two-factor flag and returns the new value.
func (c *Controller) Toggle2FA(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify(ctx)
	}()
	c.twoFactor = !c.twoFactor
	if err := c.deps.Repo.SaveTwoFactor(ctx, c.Workspace, c.twoFactor); err != nil {
		return c.twoFactor, c.persistFailed("two-factor flag", err)
	}
	if c.twoFactor {
		c.say(voice.FeedbackInfo, msgTwoFAEnabled)
	} else {
		c.say(voice.FeedbackInfo, msgTwoFADisabled)
	}
	return c.twoFactor, nil
}

// ClearData removes the profile, cookbook, favorites and two-factor flag and
// resets the session to a fresh start. The theme is kept.
func (c *Controller) ClearData(ctx context.Context) error {
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify(ctx)
	}()
	err := c.deps.Repo.Remove(ctx, c.Workspace,
		repository.SlotProfile, repository.SlotSaved, repository.SlotFavorites, repository.SlotTwoFactor)
	if err != nil {
		return c.persistFailed("data reset", err)
	}
	c.authenticated = false
	c.twoFactor = false
	c.prefs = (*models.UserProfile)(nil).Preferences()
	c.current = nil
	c.errMsg = ""
	c.ingredients.ReplaceAll(models.DefaultIngredients())
	c.say(voice.FeedbackInfo, msgDataCleared)
	return nil
}
